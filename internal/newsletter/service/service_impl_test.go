package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/clock"
	"github.com/hopelink/hopelink/internal/newsletter/domain"
	newsletterrepo "github.com/hopelink/hopelink/internal/newsletter/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNewsletterService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error

	schema := `CREATE TABLE newsletter_subscribers (
		id INTEGER PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		subscribed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("prepare schema: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  newsletterrepo.Provide(),
	})
}

func TestSubscribeIsIdempotent(t *testing.T) {
	service := setupNewsletterService(t)

	first, err := service.Subscribe(context.Background(), domain.SubscribeRequest{Email: "Alice@Example.com"})
	if err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	if first.AlreadySubscribed {
		t.Fatal("first subscription must not be reported as existing")
	}
	if first.Subscriber.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", first.Subscriber.Email)
	}

	second, err := service.Subscribe(context.Background(), domain.SubscribeRequest{Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	if !second.AlreadySubscribed {
		t.Fatal("expected re-subscription to report the existing subscription")
	}
	if second.Subscriber.ID != first.Subscriber.ID {
		t.Fatalf("expected same subscriber, got %s and %s", first.Subscriber.ID, second.Subscriber.ID)
	}
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	service := setupNewsletterService(t)

	for _, email := range []string{"", "  ", "no-at-sign"} {
		_, err := service.Subscribe(context.Background(), domain.SubscribeRequest{Email: email})
		if !errors.Is(err, domain.ErrInvalidEmail) {
			t.Fatalf("email %q: expected ErrInvalidEmail, got %v", email, err)
		}
	}
}
