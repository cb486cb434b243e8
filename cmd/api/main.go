package main

import (
	"fmt"
	"log"
	"os"

	"judgeworker/core"
	"judgeworker/judge"
)

func main() {
	if judge.IsSandboxReexec(os.Args) {
		judge.SandboxReexecMain()
		return
	}

	cfg := core.Load()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	redisClient, err := core.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer redisClient.Close()

	router := core.NewRouter(redisClient)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting status server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
