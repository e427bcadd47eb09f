package execution

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/auth"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/fault"
	"accessaudit/domain/repository"
)

// StepInput is one ordered instruction within a test case.
type StepInput struct {
	Order       int    `json:"order"`
	Instruction string `json:"instruction"`
}

// CreateTestCaseInput is an admin's test-case definition.
type CreateTestCaseInput struct {
	ScenarioID     string      `json:"scenarioId"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Steps          []StepInput `json:"steps"`
	ExpectedResult string      `json:"expectedResult"`
	Priority       string      `json:"priority"`
	Order          *int        `json:"order,omitempty"`
	WCAGCriteria   []string    `json:"wcagCriteria,omitempty"`
}

// CreateTestCase creates one executable check inside a scenario. Order
// defaults to one past the highest sibling order; priority defaults to
// medium.
func (s *Service) CreateTestCase(ctx context.Context, caller auth.Identity, in CreateTestCaseInput) (*testcase.TestCase, error) {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fault.Validation("title is required")
	}

	sc, err := s.loadScenario(ctx, in.ScenarioID)
	if err != nil {
		return nil, err
	}

	priority := testcase.PriorityMedium
	if in.Priority != "" {
		priority = testcase.Priority(in.Priority)
		if !priority.Valid() {
			return nil, fault.Validation("priority %q is not one of low, medium, high, critical", in.Priority)
		}
	}

	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		siblings, err := s.testcases.ListByScenario(ctx, sc.ID)
		if err != nil {
			return nil, fault.Internal("list test cases", err)
		}
		order = nextOrder(len(siblings), func(i int) int { return siblings[i].Order })
	}

	steps := make([]testcase.Step, len(in.Steps))
	for i, st := range in.Steps {
		steps[i] = testcase.Step{Order: st.Order, Instruction: st.Instruction}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })

	now := time.Now().UTC()
	tc := &testcase.TestCase{
		ScenarioID:      sc.ID,
		AuditRequestID:  sc.AuditRequestID,
		Title:           in.Title,
		Description:     in.Description,
		Steps:           steps,
		ExpectedResult:  in.ExpectedResult,
		Priority:        priority,
		Order:           order,
		WCAGCriteria:    in.WCAGCriteria,
		Results:         []testcase.Result{},
		Recommendations: []testcase.Recommendation{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.testcases.Create(ctx, tc); err != nil {
		return nil, fault.Internal("create test case", err)
	}

	s.logger.Info("Test case created",
		"test_case_id", tc.ID.Hex(),
		"scenario_id", in.ScenarioID,
		"order", order)
	s.metrics.IncrementCounter("execution.testcases.created", nil)
	return tc, nil
}

// UpdateTestCaseInput carries optional field updates.
type UpdateTestCaseInput struct {
	TestCaseID     string      `json:"testCaseId"`
	Title          *string     `json:"title,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Steps          []StepInput `json:"steps,omitempty"`
	ExpectedResult *string     `json:"expectedResult,omitempty"`
	Priority       *string     `json:"priority,omitempty"`
	Order          *int        `json:"order,omitempty"`
	WCAGCriteria   []string    `json:"wcagCriteria,omitempty"`
}

func (s *Service) UpdateTestCase(ctx context.Context, caller auth.Identity, in UpdateTestCaseInput) (*testcase.TestCase, error) {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return nil, err
	}

	tc, err := s.loadTestCase(ctx, in.TestCaseID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fault.Validation("title cannot be empty")
		}
		tc.Title = *in.Title
	}
	if in.Description != nil {
		tc.Description = *in.Description
	}
	if in.ExpectedResult != nil {
		tc.ExpectedResult = *in.ExpectedResult
	}
	if in.Priority != nil {
		p := testcase.Priority(*in.Priority)
		if !p.Valid() {
			return nil, fault.Validation("priority %q is not one of low, medium, high, critical", *in.Priority)
		}
		tc.Priority = p
	}
	if in.Order != nil {
		tc.Order = *in.Order
	}
	if in.Steps != nil {
		steps := make([]testcase.Step, len(in.Steps))
		for i, st := range in.Steps {
			steps[i] = testcase.Step{Order: st.Order, Instruction: st.Instruction}
		}
		sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
		tc.Steps = steps
	}
	if in.WCAGCriteria != nil {
		tc.WCAGCriteria = in.WCAGCriteria
	}

	if err := s.testcases.Update(ctx, tc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("test case", in.TestCaseID)
		}
		return nil, fault.Internal("update test case", err)
	}
	return tc, nil
}

func (s *Service) DeleteTestCase(ctx context.Context, caller auth.Identity, testCaseID string) error {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return err
	}
	tc, err := s.loadTestCase(ctx, testCaseID)
	if err != nil {
		return err
	}
	if err := s.testcases.Delete(ctx, tc.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fault.NotFound("test case", testCaseID)
		}
		return fault.Internal("delete test case", err)
	}
	s.metrics.IncrementCounter("execution.testcases.deleted", nil)
	return nil
}

// ListTestCases returns a scenario's test cases in execution order.
func (s *Service) ListTestCases(ctx context.Context, caller auth.Identity, scenarioID string) ([]*testcase.TestCase, error) {
	if caller.ID == "" {
		return nil, fault.Unauthorized("missing caller identity")
	}
	sc, err := s.loadScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	list, err := s.testcases.ListByScenario(ctx, sc.ID)
	if err != nil {
		return nil, fault.Internal("list test cases", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

func (s *Service) loadTestCase(ctx context.Context, id string) (*testcase.TestCase, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fault.Validation("malformed test case id %q", id)
	}
	tc, err := s.testcases.Get(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("test case", id)
		}
		return nil, fault.Internal("load test case", err)
	}
	return tc, nil
}
