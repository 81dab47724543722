package memory

import (
	"context"

	"buurtmarkt/internal/domain/entities"
)

type ListingRepository struct {
	store *candidateStore[*entities.Listing]
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		store: newCandidateStore(
			func(l *entities.Listing) string { return l.ID },
			(*entities.Listing).Coordinate,
		),
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *entities.Listing) error {
	return r.store.create(listing)
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	return r.store.get(id)
}

func (r *ListingRepository) Update(ctx context.Context, listing *entities.Listing) error {
	return r.store.update(listing)
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	return r.store.delete(id)
}

func (r *ListingRepository) List(ctx context.Context) ([]*entities.Listing, error) {
	return r.store.list(), nil
}

func (r *ListingRepository) Nearby(ctx context.Context, ref entities.Coordinate, radiusKm float64) ([]*entities.Listing, error) {
	return r.store.nearby(ref, radiusKm), nil
}
