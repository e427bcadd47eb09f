package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/entity/scenario"
	"accessaudit/domain/repository"
)

type ScenarioRepository struct {
	store *Store
}

func (r *ScenarioRepository) Create(ctx context.Context, s *scenario.Scenario) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	cp := *s
	r.store.scenarios[s.ID] = &cp
	return nil
}

func (r *ScenarioRepository) Get(ctx context.Context, id primitive.ObjectID) (*scenario.Scenario, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.scenarios[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *ScenarioRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]*scenario.Scenario, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []*scenario.Scenario{}
	for _, s := range r.store.scenarios {
		if s.AuditRequestID == projectID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ScenarioRepository) Update(ctx context.Context, s *scenario.Scenario) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.scenarios[s.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *s
	cp.UpdatedAt = time.Now().UTC()
	r.store.scenarios[s.ID] = &cp
	return nil
}

func (r *ScenarioRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.scenarios[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.scenarios, id)
	return nil
}
