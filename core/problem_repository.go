package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProblemRepository is the read-only slice of problem persistence the
// worker pool needs: whether a problem exists, its resource limits, and its
// testcases. Problem authoring (create/update) and the admin/public listing
// surfaces live outside the judging pipeline's scope.
type ProblemRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	FindLimits(ctx context.Context, id int64) (*ProblemLimits, error)
	ListTestcases(ctx context.Context, id int64) ([]ProblemTestcase, error)
}

type PgProblemRepository struct {
	db *pgxpool.Pool
}

func NewPgProblemRepository(db *pgxpool.Pool) *PgProblemRepository {
	return &PgProblemRepository{db: db}
}

func (r *PgProblemRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT 1 FROM problems WHERE id=$1`
	var one int
	if err := r.db.QueryRow(ctx, q, id).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ProblemLimits carries a problem's resource caps for the judge core.
type ProblemLimits struct {
	TimeLimitMS   int32
	MemoryLimitKB int32
}

// ProblemTestcase represents a single testcase's inline content.
type ProblemTestcase struct {
	InputText  string
	OutputText string
	IsSample   bool
}

func (r *PgProblemRepository) FindLimits(ctx context.Context, id int64) (*ProblemLimits, error) {
	const q = `SELECT time_limit_ms, memory_limit_kb FROM problems WHERE id=$1`
	var l ProblemLimits
	if err := r.db.QueryRow(ctx, q, id).Scan(&l.TimeLimitMS, &l.MemoryLimitKB); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListTestcases returns all testcases (including hidden) for the problem in deterministic order.
func (r *PgProblemRepository) ListTestcases(ctx context.Context, id int64) ([]ProblemTestcase, error) {
	const q = `SELECT input_text, output_text, is_sample FROM testcases WHERE problem_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProblemTestcase
	for rows.Next() {
		var inText, outText sql.NullString
		var isSample bool
		if err := rows.Scan(&inText, &outText, &isSample); err != nil {
			return nil, err
		}
		tc := ProblemTestcase{
			InputText:  inText.String,
			OutputText: outText.String,
			IsSample:   isSample,
		}
		if tc.OutputText == "" {
			return nil, errors.New("testcase output missing; inline text required")
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
