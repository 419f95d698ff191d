package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/paylane/paylane/internal/event/domain"
	"github.com/paylane/paylane/internal/event/repository"
	paymentdomain "github.com/paylane/paylane/internal/payment/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestEventService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Event{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestAppend_SanitizesPayload(t *testing.T) {
	svc := newTestEventService(t)
	ctx := context.Background()

	event, err := svc.Append(ctx, nil, "p-1", domain.TypePaymentCreated, nil, paymentdomain.StatusInit, []byte("not json"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if string(event.Payload) != "{}" {
		t.Fatalf("payload = %s, want {}", event.Payload)
	}

	event, err = svc.Append(ctx, nil, "p-1", domain.TypePaymentCreated, nil, paymentdomain.StatusInit, nil)
	if err != nil {
		t.Fatalf("append empty: %v", err)
	}
	if string(event.Payload) != "{}" {
		t.Fatalf("payload = %s, want {}", event.Payload)
	}
}

func TestListFor_OrdersByAppendSequence(t *testing.T) {
	svc := newTestEventService(t)
	ctx := context.Background()

	from := paymentdomain.StatusInit
	statuses := []paymentdomain.Status{paymentdomain.StatusInit, paymentdomain.StatusAuthorized, paymentdomain.StatusSettled}
	for i, to := range statuses {
		var fromPtr *paymentdomain.Status
		if i > 0 {
			fromPtr = &from
		}
		if _, err := svc.Append(ctx, nil, "p-1", domain.TypeStatusChanged, fromPtr, to, []byte(`{}`)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	// A second payment's events must not leak into the listing.
	if _, err := svc.Append(ctx, nil, "p-2", domain.TypePaymentCreated, nil, paymentdomain.StatusInit, []byte(`{}`)); err != nil {
		t.Fatalf("append other: %v", err)
	}

	events, err := svc.ListFor(ctx, "p-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, e := range events {
		if e.ToStatus != statuses[i] {
			t.Fatalf("event %d to_status = %s, want %s", i, e.ToStatus, statuses[i])
		}
	}
}
