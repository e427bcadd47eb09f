package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/repository"
)

type TestCaseRepository struct {
	store *Store
}

func (r *TestCaseRepository) Create(ctx context.Context, tc *testcase.TestCase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if tc.ID.IsZero() {
		tc.ID = primitive.NewObjectID()
	}
	r.store.testcases[tc.ID] = copyTestCase(tc)
	return nil
}

func (r *TestCaseRepository) Get(ctx context.Context, id primitive.ObjectID) (*testcase.TestCase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tc, ok := r.store.testcases[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTestCase(tc), nil
}

func (r *TestCaseRepository) ListByScenario(ctx context.Context, scenarioID primitive.ObjectID) ([]*testcase.TestCase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []*testcase.TestCase{}
	for _, tc := range r.store.testcases {
		if tc.ScenarioID == scenarioID {
			out = append(out, copyTestCase(tc))
		}
	}
	return out, nil
}

func (r *TestCaseRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]*testcase.TestCase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []*testcase.TestCase{}
	for _, tc := range r.store.testcases {
		if tc.AuditRequestID == projectID {
			out = append(out, copyTestCase(tc))
		}
	}
	return out, nil
}

func (r *TestCaseRepository) Update(ctx context.Context, tc *testcase.TestCase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.testcases[tc.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := copyTestCase(tc)
	cp.UpdatedAt = time.Now().UTC()
	r.store.testcases[tc.ID] = cp
	return nil
}

func (r *TestCaseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.testcases[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.testcases, id)
	return nil
}

func (r *TestCaseRepository) DeleteByScenario(ctx context.Context, scenarioID primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, tc := range r.store.testcases {
		if tc.ScenarioID == scenarioID {
			delete(r.store.testcases, id)
		}
	}
	return nil
}

func (r *TestCaseRepository) SetResult(ctx context.Context, id primitive.ObjectID, testerID string, upd repository.ResultUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tc, ok := r.store.testcases[id]
	if !ok {
		return repository.ErrNotFound
	}
	testedAt := upd.TestedAt
	if res, exists := tc.ResultFor(testerID); exists {
		res.Status = upd.Status
		res.Note = upd.Note
		res.TestedAt = &testedAt
	} else {
		tc.Results = append(tc.Results, testcase.Result{
			TesterID:    testerID,
			Status:      upd.Status,
			Note:        upd.Note,
			Attachments: []testcase.Attachment{},
			TestedAt:    &testedAt,
		})
	}
	tc.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *TestCaseRepository) AddAttachment(ctx context.Context, id primitive.ObjectID, testerID string, att testcase.Attachment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tc, ok := r.store.testcases[id]
	if !ok {
		return repository.ErrNotFound
	}
	res, exists := tc.ResultFor(testerID)
	if !exists {
		tc.Results = append(tc.Results, testcase.Result{
			TesterID:    testerID,
			Status:      testcase.ResultPending,
			Attachments: []testcase.Attachment{},
		})
		res = &tc.Results[len(tc.Results)-1]
	}
	res.Attachments = append(res.Attachments, att)
	tc.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *TestCaseRepository) AddRecommendation(ctx context.Context, id primitive.ObjectID, rec testcase.Recommendation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tc, ok := r.store.testcases[id]
	if !ok {
		return repository.ErrNotFound
	}
	tc.Recommendations = append(tc.Recommendations, rec)
	tc.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *TestCaseRepository) UpdateRecommendation(ctx context.Context, id primitive.ObjectID, rec testcase.Recommendation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tc, ok := r.store.testcases[id]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range tc.Recommendations {
		if tc.Recommendations[i].ID == rec.ID {
			tc.Recommendations[i] = rec
			tc.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *TestCaseRepository) RemoveRecommendation(ctx context.Context, id, recID primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tc, ok := r.store.testcases[id]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range tc.Recommendations {
		if tc.Recommendations[i].ID == recID {
			tc.Recommendations = append(tc.Recommendations[:i], tc.Recommendations[i+1:]...)
			tc.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrNotFound
}
