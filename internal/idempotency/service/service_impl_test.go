package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/paylane/paylane/internal/idempotency/domain"
	"github.com/paylane/paylane/internal/idempotency/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func newTestCoordinator(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_idem_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Record{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestAdmit_FreshKeyProceeds(t *testing.T) {
	svc, _ := newTestCoordinator(t)

	decision, err := svc.Admit(context.Background(), "key-1", "hash-a")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if !decision.Proceed {
		t.Fatal("fresh key must proceed")
	}
	if decision.Token != "key-1" {
		t.Fatalf("token = %q", decision.Token)
	}
}

func TestAdmit_BlankKeyGetsGenerated(t *testing.T) {
	svc, _ := newTestCoordinator(t)

	decision, err := svc.Admit(context.Background(), "   ", "hash-a")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if !decision.Proceed {
		t.Fatal("generated key must proceed")
	}
	if decision.Token == "" || decision.Token == "   " {
		t.Fatalf("expected generated token, got %q", decision.Token)
	}
}

func TestAdmit_InProgressConflict(t *testing.T) {
	svc, _ := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := svc.Admit(ctx, "key-1", "hash-a"); err != nil {
		t.Fatalf("first admit: %v", err)
	}
	if _, err := svc.Admit(ctx, "key-1", "hash-a"); !errors.Is(err, domain.ErrInProgress) {
		t.Fatalf("expected in-progress conflict, got %v", err)
	}
}

func TestAdmit_HashMismatch(t *testing.T) {
	svc, _ := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := svc.Admit(ctx, "key-1", "hash-a"); err != nil {
		t.Fatalf("first admit: %v", err)
	}
	if _, err := svc.Admit(ctx, "key-1", "hash-b"); !errors.Is(err, domain.ErrTokenConflict) {
		t.Fatalf("expected token conflict, got %v", err)
	}
}

func TestAdmit_ReplaysCommittedSuccess(t *testing.T) {
	svc, _ := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := svc.Admit(ctx, "key-1", "hash-a"); err != nil {
		t.Fatalf("admit: %v", err)
	}
	body := []byte(`{"payment_id":"p-1"}`)
	if err := svc.Commit(ctx, nil, "key-1", domain.OutcomeSucceeded, http.StatusCreated, body); err != nil {
		t.Fatalf("commit: %v", err)
	}

	decision, err := svc.Admit(ctx, "key-1", "hash-a")
	if err != nil {
		t.Fatalf("replay admit: %v", err)
	}
	if decision.Proceed {
		t.Fatal("committed key must not proceed")
	}
	if decision.ResponseCode != http.StatusCreated {
		t.Fatalf("response code = %d", decision.ResponseCode)
	}
	if string(decision.ResponseBody) != string(body) {
		t.Fatalf("response body = %s", decision.ResponseBody)
	}
}

func TestAdmit_FailedOutcomeRejectsRetry(t *testing.T) {
	svc, _ := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := svc.Admit(ctx, "key-1", "hash-a"); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if err := svc.Commit(ctx, nil, "key-1", domain.OutcomeFailed, http.StatusInternalServerError, []byte(`{}`)); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := svc.Admit(ctx, "key-1", "hash-a"); !errors.Is(err, domain.ErrReplayFailed) {
		t.Fatalf("expected replay-failed conflict, got %v", err)
	}
}

func TestCommit_RequiresTerminalOutcome(t *testing.T) {
	svc, _ := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := svc.Admit(ctx, "key-1", "hash-a"); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if err := svc.Commit(ctx, nil, "key-1", domain.OutcomeInProgress, 0, nil); err == nil {
		t.Fatal("expected error for non-terminal outcome")
	}
}

func TestCommit_SecondWriteLoses(t *testing.T) {
	svc, _ := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := svc.Admit(ctx, "key-1", "hash-a"); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if err := svc.Commit(ctx, nil, "key-1", domain.OutcomeSucceeded, http.StatusCreated, []byte(`{}`)); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	err := svc.Commit(ctx, nil, "key-1", domain.OutcomeFailed, http.StatusInternalServerError, []byte(`{}`))
	if !errors.Is(err, domain.ErrAlreadyCommitted) {
		t.Fatalf("expected already-committed, got %v", err)
	}
}
