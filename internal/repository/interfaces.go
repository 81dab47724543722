// Package repository declares the storage contracts the services depend on.
// The discovery engine treats candidate persistence as an external
// collaborator; internal/repository/memory is the in-process implementation.
package repository

import (
	"context"
	"errors"

	"buurtmarkt/internal/domain/entities"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *entities.Profile) error
	GetByID(ctx context.Context, userID string) (*entities.Profile, error)
	Update(ctx context.Context, profile *entities.Profile) error
}

// ListingRepository returns listings in insertion order.
type ListingRepository interface {
	Create(ctx context.Context, listing *entities.Listing) error
	GetByID(ctx context.Context, id string) (*entities.Listing, error)
	Update(ctx context.Context, listing *entities.Listing) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.Listing, error)
	// Nearby returns a superset of the listings within radiusKm of ref plus
	// every listing without a coordinate. It may return everything.
	Nearby(ctx context.Context, ref entities.Coordinate, radiusKm float64) ([]*entities.Listing, error)
}

// PersonRepository returns people in insertion order.
type PersonRepository interface {
	Create(ctx context.Context, person *entities.Person) error
	GetByID(ctx context.Context, id string) (*entities.Person, error)
	Update(ctx context.Context, person *entities.Person) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.Person, error)
	Nearby(ctx context.Context, ref entities.Coordinate, radiusKm float64) ([]*entities.Person, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	GetByID(ctx context.Context, id string) (*entities.Session, error)
	Delete(ctx context.Context, id string) error
}
