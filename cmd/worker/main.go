package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"classtrack/internal/config"
	"classtrack/internal/notify"
	"classtrack/internal/queue"
	"classtrack/internal/store"
	"classtrack/internal/user"
)

// phoneDirectory adapts the user repository to the notifier's lookup.
type phoneDirectory struct {
	repo *user.Repository
}

func (d phoneDirectory) StudentPhone(ctx context.Context, username string) (string, error) {
	u, err := d.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", nil
	}
	return u.Phone, nil
}

// Worker consumes absence notices and delivers them. Delivery is best-effort:
// failures are logged and the message is dropped, never retried.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, notify.QueueName)
	}

	phones := phoneDirectory{repo: user.NewRepository(db.Client)}
	var sender notify.Sender = notify.ConsoleSender{}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for notices...")
	for msg := range messages {
		if msg.Type != notify.MessageType {
			continue
		}
		if err := notify.Deliver(ctx, msg, phones, sender); err != nil {
			log.Printf("notice delivery failed: %v", err)
		}
	}

	log.Println("worker stopped")
}
