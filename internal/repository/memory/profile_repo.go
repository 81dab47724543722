package memory

import (
	"context"
	"sync"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/repository"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*entities.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[string]*entities.Profile),
	}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[profile.UserID]; exists {
		return repository.ErrAlreadyExists
	}
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (*entities.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[userID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[profile.UserID]; !exists {
		return repository.ErrNotFound
	}
	r.profiles[profile.UserID] = profile
	return nil
}
