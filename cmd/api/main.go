// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "skillhub-translate-worker/docs"
	"skillhub-translate-worker/internal/engine"
	"skillhub-translate-worker/internal/repository/postgresql"
	"skillhub-translate-worker/internal/service"
	httptransport "skillhub-translate-worker/internal/transport/http"
)

// @title skillhub-translate-worker API
// @version 1.0
// @description Enqueue and inspect skill translation jobs.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgDSN := mustEnv("POSTGRES_DSN")
	redisAddr := mustEnv("REDIS_ADDR")
	addr := envOr("HTTP_ADDR", ":8080")

	pool, err := postgresql.NewPool(ctx, pgDSN)
	if err != nil {
		log.Fatalf("pg: %v", err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	jobs := postgresql.NewJobRepository(pool)
	skills := postgresql.NewSkillRepository(pool)
	jobSvc := service.NewJobService(jobs, skills)
	notifier := engine.NewRedisNotifier(rdb, envOr("ENGINES_RELOAD_CHANNEL", engine.DefaultReloadChannel))

	h := httptransport.NewHandler(jobSvc, notifier)
	srv := &http.Server{
		Addr:              addr,
		Handler:           httptransport.Routes(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("api started: addr=%s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("http: %v", err)
	}
	log.Println("api stopped")
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing env: %s", key)
	}
	return v
}

func envOr(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
