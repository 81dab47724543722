package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/repository"
)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Hour)
	defer repo.Stop()
	ctx := context.Background()

	s := entities.NewSession("s1", "u1", "NL")
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, s); !errors.Is(err, repository.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.GetByID(ctx, "s1")
	if err != nil || got != s {
		t.Errorf("GetByID returned %v, %v", got, err)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "s1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_ExpiredSessionNotReturned(t *testing.T) {
	repo := NewSessionRepository(10*time.Millisecond, time.Hour)
	defer repo.Stop()
	ctx := context.Background()

	_ = repo.Create(ctx, entities.NewSession("s1", "", "NL"))
	time.Sleep(30 * time.Millisecond)

	if _, err := repo.GetByID(ctx, "s1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected expired session to be gone, got %v", err)
	}
}

func TestSessionRepository_SweepCallsOnExpire(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Hour)
	defer repo.Stop()
	ctx := context.Background()

	var expired []string
	repo.OnExpire(func(s *entities.Session) { expired = append(expired, s.ID) })
	_ = repo.Create(ctx, entities.NewSession("old", "", "NL"))

	repo.sweep(time.Now())
	if len(expired) != 0 {
		t.Fatalf("Fresh session should survive a sweep, got %v", expired)
	}

	repo.sweep(time.Now().Add(2 * time.Minute))
	if len(expired) != 1 || expired[0] != "old" {
		t.Errorf("Expected old session to expire, got %v", expired)
	}
	if repo.Len() != 0 {
		t.Errorf("Expected empty repository, got %d", repo.Len())
	}
}

func TestSessionRepository_StopTwice(t *testing.T) {
	repo := NewSessionRepository(0, 0)
	repo.Stop()
	repo.Stop()
}
