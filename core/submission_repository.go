package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Submission represents a user submission's metadata stored in the database.
type Submission struct {
	ID         int64
	UserID     int64
	ProblemID  int64
	Language   string
	SourcePath string
	Status     string
	CreatedAt  time.Time
}

// SubmissionResult holds the judge outcome for a submission.
type SubmissionResult struct {
	SubmissionID int64
	Verdict      string
	TimeMS       *int32
	MemoryKB     *int32
	StdoutPath   *string
	StderrPath   *string
	ExitCode     *int32
	ErrorMessage *string
	UpdatedAt    time.Time
	Details      []SubmissionJudgeDetail
}

// SubmissionJudgeDetail represents per-testcase execution detail.
type SubmissionJudgeDetail struct {
	Testcase string `json:"testcase"`
	Status   string `json:"status"`
	TimeMS   *int32 `json:"time_ms,omitempty"`
	MemoryKB *int32 `json:"memory_kb,omitempty"`
}

// SubmissionRepository defines the persistence operations the worker pool
// needs to claim, judge, and record the outcome of a submission.
type SubmissionRepository interface {
	FindByID(ctx context.Context, id int64) (*Submission, error)
	MarkStatus(ctx context.Context, id int64, status string) error
	SaveResult(ctx context.Context, result SubmissionResult, finalStatus string) error
	Create(ctx context.Context, userID, problemID int64, language, sourcePath string) (int64, time.Time, error)
	Delete(ctx context.Context, id int64) error
	AcquirePending(ctx context.Context, id int64) (*Submission, error)
	IncrementRetry(ctx context.Context, id int64) (int, error)
}

// PgSubmissionRepository is a pgx implementation.
// NOTE: Expects tables `submissions` and `submission_results` to exist.
type PgSubmissionRepository struct {
	db *pgxpool.Pool
}

func NewPgSubmissionRepository(db *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{db: db}
}

var ErrSubmissionNotPending = errors.New("submission not pending")

func (r *PgSubmissionRepository) FindByID(ctx context.Context, id int64) (*Submission, error) {
	const q = `SELECT id, user_id, problem_id, language, source_path, status, created_at FROM submissions WHERE id=$1`
	var s Submission
	if err := r.db.QueryRow(ctx, q, id).Scan(&s.ID, &s.UserID, &s.ProblemID, &s.Language, &s.SourcePath, &s.Status, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgSubmissionRepository) MarkStatus(ctx context.Context, id int64, status string) error {
	if status == "" {
		return errors.New("status is empty")
	}
	const q = `UPDATE submissions SET status=$1, updated_at=NOW() WHERE id=$2`
	ct, err := r.db.Exec(ctx, q, status, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("submission not found")
	}
	return nil
}

func (r *PgSubmissionRepository) SaveResult(ctx context.Context, result SubmissionResult, finalStatus string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const updStatus = `UPDATE submissions SET status=$1, updated_at=NOW() WHERE id=$2`
	if ct, err := tx.Exec(ctx, updStatus, finalStatus, result.SubmissionID); err != nil {
		return err
	} else if ct.RowsAffected() == 0 {
		return errors.New("submission not found")
	}

	const q = `INSERT INTO submission_results (submission_id, verdict, time_ms, memory_kb, stdout_path, stderr_path, exit_code, error_message, updated_at)
               VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
               ON CONFLICT (submission_id) DO UPDATE SET
                 verdict=EXCLUDED.verdict,
                 time_ms=EXCLUDED.time_ms,
                 memory_kb=EXCLUDED.memory_kb,
                 stdout_path=EXCLUDED.stdout_path,
                 stderr_path=EXCLUDED.stderr_path,
                 exit_code=EXCLUDED.exit_code,
                 error_message=EXCLUDED.error_message,
                 updated_at=NOW()`

	if _, err := tx.Exec(ctx, q, result.SubmissionID, result.Verdict, result.TimeMS, result.MemoryKB, result.StdoutPath, result.StderrPath, result.ExitCode, result.ErrorMessage); err != nil {
		return err
	}

	// refresh judge details
	if _, err := tx.Exec(ctx, `DELETE FROM submission_result_details WHERE submission_id=$1`, result.SubmissionID); err != nil {
		return err
	}
	for _, d := range result.Details {
		if _, err := tx.Exec(ctx, `INSERT INTO submission_result_details (submission_id, testcase, status, time_ms, memory_kb)
VALUES ($1,$2,$3,$4,$5)`, result.SubmissionID, d.Testcase, d.Status, d.TimeMS, d.MemoryKB); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PgSubmissionRepository) Create(ctx context.Context, userID, problemID int64, language, sourcePath string) (int64, time.Time, error) {
	const q = `INSERT INTO submissions (user_id, problem_id, language, source_path, status)
			VALUES ($1,$2,$3,$4,'pending') RETURNING id, created_at`
	var id int64
	var created time.Time
	if err := r.db.QueryRow(ctx, q, userID, problemID, language, sourcePath).Scan(&id, &created); err != nil {
		return 0, time.Time{}, err
	}
	return id, created, nil
}

func (r *PgSubmissionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM submissions WHERE id=$1`, id)
	return err
}

// AcquirePending locks a pending submission and transitions it to running atomically.
func (r *PgSubmissionRepository) AcquirePending(ctx context.Context, id int64) (*Submission, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const sel = `SELECT id, user_id, problem_id, language, source_path, status, created_at FROM submissions WHERE id=$1 FOR UPDATE`
	var s Submission
	if err := tx.QueryRow(ctx, sel, id).Scan(&s.ID, &s.UserID, &s.ProblemID, &s.Language, &s.SourcePath, &s.Status, &s.CreatedAt); err != nil {
		return nil, err
	}
	if s.Status != "pending" {
		return nil, ErrSubmissionNotPending
	}

	const upd = `UPDATE submissions SET status='running', updated_at=NOW() WHERE id=$1`
	if _, err := tx.Exec(ctx, upd, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	s.Status = "running"
	return &s, nil
}

// IncrementRetry increments retry_count and returns the latest value.
func (r *PgSubmissionRepository) IncrementRetry(ctx context.Context, id int64) (int, error) {
	const q = `UPDATE submissions SET retry_count = retry_count + 1, updated_at=NOW() WHERE id=$1 RETURNING retry_count`
	var count int
	if err := r.db.QueryRow(ctx, q, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
