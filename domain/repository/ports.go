// Package repository defines the entity-store ports. The contract is the
// document-store model: atomic create, atomic field-set, and atomic array
// push/pull on a single document, with preconditions checked at the point
// of write. Cross-document consistency is not assumed.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/entity/project"
	"accessaudit/domain/entity/scenario"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/entity/user"
)

// ErrNotFound is returned when the referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// AssignmentUpdate is the field-set applied to one assignment entry during
// a work-status transition.
type AssignmentUpdate struct {
	WorkStatus  project.WorkStatus
	AcceptedAt  *time.Time
	CompletedAt *time.Time
	Note        *string
}

// ProjectRepository persists audit engagements. Every mutating method is a
// single atomic document update; methods with a stated precondition embed
// it in the write itself and fail without writing when it no longer holds.
type ProjectRepository interface {
	Create(ctx context.Context, p *project.Project) error
	Get(ctx context.Context, id primitive.ObjectID) (*project.Project, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*project.Project, error)

	// SetStatus applies an admin-driven status change and appends the
	// history entry in the same update.
	SetStatus(ctx context.Context, id primitive.ObjectID, to project.Status, change project.StatusChange) error

	// SetStatusIf is SetStatus guarded by the expected current status.
	// Returns project.ErrPreconditionFailed when the guard does not hold
	// at write time.
	SetStatusIf(ctx context.Context, id primitive.ObjectID, expected, to project.Status, change project.StatusChange) error

	// AddAssignment appends a tester assignment, guarded by the absence
	// of an active entry for the same tester. Returns
	// project.ErrAlreadyAssigned when the guard fails.
	AddAssignment(ctx context.Context, id primitive.ObjectID, a project.Assignment) error

	// UpdateAssignment applies upd to the tester's entry, guarded by its
	// current workStatus equalling from. Returns
	// project.ErrPreconditionFailed when the guard fails.
	UpdateAssignment(ctx context.Context, id primitive.ObjectID, testerID string, from project.WorkStatus, upd AssignmentUpdate) error

	// RemoveAssignment marks the tester's active entry removed, keeping
	// it for audit history. Returns project.ErrNotAssigned when no
	// active entry exists.
	RemoveAssignment(ctx context.Context, id primitive.ObjectID, testerID, note string) error

	// SetAssignmentProgress sets progressPercent on the tester's active
	// entry. Returns project.ErrNotAssigned when no active entry exists.
	SetAssignmentProgress(ctx context.Context, id primitive.ObjectID, testerID string, percent int) error
}

// ScenarioRepository persists test-case groupings.
type ScenarioRepository interface {
	Create(ctx context.Context, s *scenario.Scenario) error
	Get(ctx context.Context, id primitive.ObjectID) (*scenario.Scenario, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]*scenario.Scenario, error)
	Update(ctx context.Context, s *scenario.Scenario) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ResultUpdate is the field-set applied when a tester submits a verdict.
type ResultUpdate struct {
	Status   testcase.ResultStatus
	Note     string
	TestedAt time.Time
}

// TestCaseRepository persists executable checks with their embedded results
// and recommendations.
type TestCaseRepository interface {
	Create(ctx context.Context, tc *testcase.TestCase) error
	Get(ctx context.Context, id primitive.ObjectID) (*testcase.TestCase, error)
	ListByScenario(ctx context.Context, scenarioID primitive.ObjectID) ([]*testcase.TestCase, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]*testcase.TestCase, error)
	Update(ctx context.Context, tc *testcase.TestCase) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// DeleteByScenario removes all test cases of a scenario. Used as the
	// first step of the cascading scenario delete.
	DeleteByScenario(ctx context.Context, scenarioID primitive.ObjectID) error

	// SetResult upserts the tester's result entry: updates the entry
	// matching the tester identity, or appends a new one when absent.
	// At most one entry per tester survives under concurrent calls.
	SetResult(ctx context.Context, id primitive.ObjectID, testerID string, upd ResultUpdate) error

	// AddAttachment appends an attachment to the tester's result entry,
	// creating the entry with status pending when absent.
	AddAttachment(ctx context.Context, id primitive.ObjectID, testerID string, att testcase.Attachment) error

	AddRecommendation(ctx context.Context, id primitive.ObjectID, rec testcase.Recommendation) error
	UpdateRecommendation(ctx context.Context, id primitive.ObjectID, rec testcase.Recommendation) error
	RemoveRecommendation(ctx context.Context, id, recID primitive.ObjectID) error
}

// UserDirectory is the read-only view of the identity collaborator's user
// store: assignment-target validation and display-name resolution.
type UserDirectory interface {
	Get(ctx context.Context, id string) (*user.User, error)
}
