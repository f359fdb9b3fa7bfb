package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/lopez-it-welt/worktrack/internal/billing"
	"github.com/lopez-it-welt/worktrack/internal/common/clock"
	"github.com/lopez-it-welt/worktrack/internal/common/uuid"
	"github.com/lopez-it-welt/worktrack/internal/handlers/api"
	"github.com/lopez-it-welt/worktrack/internal/heartbeat"
	directoryRepo "github.com/lopez-it-welt/worktrack/internal/repositories/directory"
	sessionRepo "github.com/lopez-it-welt/worktrack/internal/repositories/session"
	"github.com/lopez-it-welt/worktrack/internal/services/tracker"
	"github.com/lopez-it-welt/worktrack/internal/stats"
	"github.com/lopez-it-welt/worktrack/internal/trigger"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create session repository: %v", err)
	}

	directory, err := directoryRepo.NewRedis(&directoryRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create directory repository: %v", err)
	}

	// Initialize the lifecycle collaborators
	monitor := heartbeat.New(&heartbeat.Config{
		Threshold: getEnvDuration("HEARTBEAT_THRESHOLD", heartbeat.DefaultThreshold),
	})

	// Initialize the tracker service
	trackerSvc, err := tracker.New(&tracker.Config{
		SessionRepo:   sessions,
		DirectoryRepo: directory,
		Monitor:       monitor,
		Aggregator:    stats.New(),
		BillingGate:   billing.New(nil),
		Classifier:    trigger.New(nil),
		Clock:         &clock.DefaultClock{},
		UUIDGenerator: uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create tracker service: %v", err)
	}

	// Initialize the HTTP API
	handler, err := api.New(&api.Config{
		TrackerService: trackerSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create API handler: %v", err)
	}

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    getEnv("LISTEN_ADDR", ":8080"),
		Handler: router,
	}

	// Sweep stale sessions in the background at the staleness threshold
	// interval, so an abandoned session is interrupted within two intervals
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runStaleSweeper(sweepCtx, trackerSvc, monitor.Threshold())

	go func() {
		log.Printf("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	stopSweep()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	log.Println("Server has been shut down")
}

// runStaleSweeper periodically interrupts sessions whose heartbeat has
// gone stale
func runStaleSweeper(ctx context.Context, svc tracker.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			output, err := svc.SweepStale(ctx, &tracker.SweepStaleInput{})
			if err != nil {
				log.Printf("Error sweeping stale sessions: %v", err)
				continue
			}
			if output.InterruptedCount > 0 {
				log.Printf("Interrupted %d stale session(s)", output.InterruptedCount)
			}
		}
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration gets a duration environment variable or returns a
// default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s value %q, using default", key, value)
		return defaultValue
	}
	return parsed
}
