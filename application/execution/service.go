// Package execution implements the test execution model: scenario and
// test-case administration, the ordered-submission rule, per-tester result
// upserts, evidence attachments, and recommendation management.
package execution

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/auth"
	"accessaudit/domain/entity/scenario"
	"accessaudit/domain/fault"
	"accessaudit/domain/observability"
	"accessaudit/domain/repository"
	"accessaudit/domain/storage"
)

type Service struct {
	projects  repository.ProjectRepository
	scenarios repository.ScenarioRepository
	testcases repository.TestCaseRepository
	users     repository.UserDirectory
	objects   storage.ObjectStorage
	logger    observability.Logger
	metrics   observability.Metrics
}

func NewService(
	projects repository.ProjectRepository,
	scenarios repository.ScenarioRepository,
	testcases repository.TestCaseRepository,
	users repository.UserDirectory,
	objects storage.ObjectStorage,
	logger observability.Logger,
	metrics observability.Metrics,
) *Service {
	return &Service{
		projects:  projects,
		scenarios: scenarios,
		testcases: testcases,
		users:     users,
		objects:   objects,
		logger:    logger,
		metrics:   metrics,
	}
}

// CreateScenarioInput is an admin's scenario definition.
type CreateScenarioInput struct {
	ProjectID        string `json:"projectId"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	AssignedTesterID string `json:"assignedTesterId"`
	Order            *int   `json:"order,omitempty"`
}

// CreateScenario creates a test-case grouping assigned to one tester. When
// order is omitted it defaults to one past the highest sibling order.
func (s *Service) CreateScenario(ctx context.Context, caller auth.Identity, in CreateScenarioInput) (*scenario.Scenario, error) {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fault.Validation("title is required")
	}

	projectID, err := primitive.ObjectIDFromHex(in.ProjectID)
	if err != nil {
		return nil, fault.Validation("malformed project id %q", in.ProjectID)
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("project", in.ProjectID)
		}
		return nil, fault.Internal("load project", err)
	}

	target, err := s.users.Get(ctx, in.AssignedTesterID)
	if err != nil || target.Role != auth.RoleTester {
		return nil, fault.NotFound("tester", in.AssignedTesterID)
	}

	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		siblings, err := s.scenarios.ListByProject(ctx, projectID)
		if err != nil {
			return nil, fault.Internal("list scenarios", err)
		}
		order = nextOrder(len(siblings), func(i int) int { return siblings[i].Order })
	}

	sc := scenario.New(projectID, in.Title, in.Description, in.AssignedTesterID, order)
	if err := s.scenarios.Create(ctx, sc); err != nil {
		return nil, fault.Internal("create scenario", err)
	}

	s.logger.Info("Scenario created",
		"scenario_id", sc.ID.Hex(),
		"project_id", in.ProjectID,
		"assigned_tester", in.AssignedTesterID)
	s.metrics.IncrementCounter("execution.scenarios.created", nil)
	return sc, nil
}

// UpdateScenarioInput carries optional field updates.
type UpdateScenarioInput struct {
	ScenarioID       string  `json:"scenarioId"`
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	AssignedTesterID *string `json:"assignedTesterId,omitempty"`
	Order            *int    `json:"order,omitempty"`
}

func (s *Service) UpdateScenario(ctx context.Context, caller auth.Identity, in UpdateScenarioInput) (*scenario.Scenario, error) {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return nil, err
	}

	sc, err := s.loadScenario(ctx, in.ScenarioID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fault.Validation("title cannot be empty")
		}
		sc.Title = *in.Title
	}
	if in.Description != nil {
		sc.Description = *in.Description
	}
	if in.AssignedTesterID != nil {
		target, err := s.users.Get(ctx, *in.AssignedTesterID)
		if err != nil || target.Role != auth.RoleTester {
			return nil, fault.NotFound("tester", *in.AssignedTesterID)
		}
		sc.AssignedTesterID = *in.AssignedTesterID
	}
	if in.Order != nil {
		sc.Order = *in.Order
	}

	if err := s.scenarios.Update(ctx, sc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("scenario", in.ScenarioID)
		}
		return nil, fault.Internal("update scenario", err)
	}
	return sc, nil
}

// DeleteScenario removes a scenario and cascades to its test cases.
// Children go first; a partial failure leaves the parent intact and the
// orphaned children findable by their auditRequestId.
func (s *Service) DeleteScenario(ctx context.Context, caller auth.Identity, scenarioID string) error {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return err
	}

	sc, err := s.loadScenario(ctx, scenarioID)
	if err != nil {
		return err
	}

	if err := s.testcases.DeleteByScenario(ctx, sc.ID); err != nil {
		return fault.Internal("delete scenario test cases", err)
	}
	if err := s.scenarios.Delete(ctx, sc.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fault.NotFound("scenario", scenarioID)
		}
		return fault.Internal("delete scenario", err)
	}

	s.logger.Info("Scenario deleted", "scenario_id", scenarioID)
	s.metrics.IncrementCounter("execution.scenarios.deleted", nil)
	return nil
}

// ListScenarios returns a project's scenarios in order.
func (s *Service) ListScenarios(ctx context.Context, caller auth.Identity, projectID string) ([]*scenario.Scenario, error) {
	if caller.ID == "" {
		return nil, fault.Unauthorized("missing caller identity")
	}
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fault.Validation("malformed project id %q", projectID)
	}
	list, err := s.scenarios.ListByProject(ctx, oid)
	if err != nil {
		return nil, fault.Internal("list scenarios", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

func (s *Service) loadScenario(ctx context.Context, id string) (*scenario.Scenario, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fault.Validation("malformed scenario id %q", id)
	}
	sc, err := s.scenarios.Get(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("scenario", id)
		}
		return nil, fault.Internal("load scenario", err)
	}
	return sc, nil
}

// nextOrder returns (max sibling order)+1, or 1 when there are no siblings.
func nextOrder(n int, orderAt func(int) int) int {
	max := 0
	for i := 0; i < n; i++ {
		if o := orderAt(i); o > max {
			max = o
		}
	}
	return max + 1
}
