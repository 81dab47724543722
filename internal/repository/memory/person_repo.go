package memory

import (
	"context"

	"buurtmarkt/internal/domain/entities"
)

type PersonRepository struct {
	store *candidateStore[*entities.Person]
}

func NewPersonRepository() *PersonRepository {
	return &PersonRepository{
		store: newCandidateStore(
			func(p *entities.Person) string { return p.ID },
			(*entities.Person).Coordinate,
		),
	}
}

func (r *PersonRepository) Create(ctx context.Context, person *entities.Person) error {
	return r.store.create(person)
}

func (r *PersonRepository) GetByID(ctx context.Context, id string) (*entities.Person, error) {
	return r.store.get(id)
}

func (r *PersonRepository) Update(ctx context.Context, person *entities.Person) error {
	return r.store.update(person)
}

func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	return r.store.delete(id)
}

func (r *PersonRepository) List(ctx context.Context) ([]*entities.Person, error) {
	return r.store.list(), nil
}

func (r *PersonRepository) Nearby(ctx context.Context, ref entities.Coordinate, radiusKm float64) ([]*entities.Person, error) {
	return r.store.nearby(ref, radiusKm), nil
}
