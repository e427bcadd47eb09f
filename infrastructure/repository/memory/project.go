package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/entity/project"
	"accessaudit/domain/repository"
)

type ProjectRepository struct {
	store *Store
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.store.projects[p.ID] = copyProject(p)
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id primitive.ObjectID) (*project.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProject(p), nil
}

func (r *ProjectRepository) ListByCustomer(ctx context.Context, customerID string) ([]*project.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []*project.Project{}
	for _, p := range r.store.projects {
		if p.CustomerID == customerID {
			out = append(out, copyProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProjectRepository) SetStatus(ctx context.Context, id primitive.ObjectID, to project.Status, change project.StatusChange) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = to
	p.StatusHistory = append(p.StatusHistory, change)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProjectRepository) SetStatusIf(ctx context.Context, id primitive.ObjectID, expected, to project.Status, change project.StatusChange) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Status != expected {
		return project.ErrPreconditionFailed
	}
	p.Status = to
	p.StatusHistory = append(p.StatusHistory, change)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProjectRepository) AddAssignment(ctx context.Context, id primitive.ObjectID, a project.Assignment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	if _, exists := p.ActiveAssignment(a.TesterID); exists {
		return project.ErrAlreadyAssigned
	}
	p.AssignedTesters = append(p.AssignedTesters, a)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProjectRepository) UpdateAssignment(ctx context.Context, id primitive.ObjectID, testerID string, from project.WorkStatus, upd repository.AssignmentUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range p.AssignedTesters {
		a := &p.AssignedTesters[i]
		if a.TesterID != testerID || a.WorkStatus != from {
			continue
		}
		a.WorkStatus = upd.WorkStatus
		if upd.AcceptedAt != nil {
			a.AcceptedAt = upd.AcceptedAt
		}
		if upd.CompletedAt != nil {
			a.CompletedAt = upd.CompletedAt
		}
		if upd.Note != nil {
			a.Note = *upd.Note
		}
		p.UpdatedAt = time.Now().UTC()
		return nil
	}
	return project.ErrPreconditionFailed
}

func (r *ProjectRepository) RemoveAssignment(ctx context.Context, id primitive.ObjectID, testerID, note string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	a, exists := p.ActiveAssignment(testerID)
	if !exists {
		return project.ErrNotAssigned
	}
	a.WorkStatus = project.WorkRemoved
	if note != "" {
		a.Note = note
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProjectRepository) SetAssignmentProgress(ctx context.Context, id primitive.ObjectID, testerID string, percent int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	a, exists := p.ActiveAssignment(testerID)
	if !exists {
		return project.ErrNotAssigned
	}
	a.ProgressPercent = percent
	p.UpdatedAt = time.Now().UTC()
	return nil
}
