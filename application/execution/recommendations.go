package execution

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/auth"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/fault"
	"accessaudit/domain/repository"
)

// RecommendationInput is admin-authored remediation guidance for a test
// case. Title, description, and howToFix are required; severity defaults
// to medium.
type RecommendationInput struct {
	TestCaseID   string `json:"testCaseId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Severity     string `json:"severity"`
	HowToFix     string `json:"howToFix"`
	Technique    string `json:"technique,omitempty"`
	ReferenceURL string `json:"referenceUrl,omitempty"`
	CodeSnippet  string `json:"codeSnippet,omitempty"`
}

func (s *Service) AddRecommendation(ctx context.Context, caller auth.Identity, in RecommendationInput) (*testcase.TestCase, error) {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return nil, err
	}
	severity, err := validateRecommendation(in)
	if err != nil {
		return nil, err
	}

	tc, err := s.loadTestCase(ctx, in.TestCaseID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := testcase.Recommendation{
		ID:           primitive.NewObjectID(),
		Title:        in.Title,
		Description:  in.Description,
		Severity:     severity,
		HowToFix:     in.HowToFix,
		Technique:    in.Technique,
		ReferenceURL: in.ReferenceURL,
		CodeSnippet:  in.CodeSnippet,
		CreatedBy:    caller.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.testcases.AddRecommendation(ctx, tc.ID, rec); err != nil {
		return nil, fault.Internal("add recommendation", err)
	}

	s.logger.Info("Recommendation added",
		"test_case_id", tc.ID.Hex(),
		"severity", string(severity))
	s.metrics.IncrementCounter("execution.recommendations.added", map[string]string{"severity": string(severity)})

	return s.testcases.Get(ctx, tc.ID)
}

// UpdateRecommendationInput replaces the named recommendation's content.
type UpdateRecommendationInput struct {
	RecommendationID string `json:"recommendationId"`
	RecommendationInput
}

func (s *Service) UpdateRecommendation(ctx context.Context, caller auth.Identity, in UpdateRecommendationInput) (*testcase.TestCase, error) {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return nil, err
	}
	severity, err := validateRecommendation(in.RecommendationInput)
	if err != nil {
		return nil, err
	}

	tc, err := s.loadTestCase(ctx, in.TestCaseID)
	if err != nil {
		return nil, err
	}
	recID, err := primitive.ObjectIDFromHex(in.RecommendationID)
	if err != nil {
		return nil, fault.Validation("malformed recommendation id %q", in.RecommendationID)
	}

	existing, ok := findRecommendation(tc, recID)
	if !ok {
		return nil, fault.NotFound("recommendation", in.RecommendationID)
	}

	rec := testcase.Recommendation{
		ID:           recID,
		Title:        in.Title,
		Description:  in.Description,
		Severity:     severity,
		HowToFix:     in.HowToFix,
		Technique:    in.Technique,
		ReferenceURL: in.ReferenceURL,
		CodeSnippet:  in.CodeSnippet,
		CreatedBy:    existing.CreatedBy,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.testcases.UpdateRecommendation(ctx, tc.ID, rec); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fault.NotFound("recommendation", in.RecommendationID)
		}
		return nil, fault.Internal("update recommendation", err)
	}
	return s.testcases.Get(ctx, tc.ID)
}

// DeleteRecommendationInput names the recommendation to remove.
type DeleteRecommendationInput struct {
	TestCaseID       string `json:"testCaseId"`
	RecommendationID string `json:"recommendationId"`
}

func (s *Service) DeleteRecommendation(ctx context.Context, caller auth.Identity, in DeleteRecommendationInput) error {
	if err := caller.Require(auth.RoleAdmin); err != nil {
		return err
	}
	tc, err := s.loadTestCase(ctx, in.TestCaseID)
	if err != nil {
		return err
	}
	recID, err := primitive.ObjectIDFromHex(in.RecommendationID)
	if err != nil {
		return fault.Validation("malformed recommendation id %q", in.RecommendationID)
	}
	if _, ok := findRecommendation(tc, recID); !ok {
		return fault.NotFound("recommendation", in.RecommendationID)
	}
	if err := s.testcases.RemoveRecommendation(ctx, tc.ID, recID); err != nil {
		return fault.Internal("delete recommendation", err)
	}
	s.metrics.IncrementCounter("execution.recommendations.deleted", nil)
	return nil
}

func validateRecommendation(in RecommendationInput) (testcase.Severity, error) {
	if in.Title == "" {
		return "", fault.Validation("title is required")
	}
	if in.Description == "" {
		return "", fault.Validation("description is required")
	}
	if in.HowToFix == "" {
		return "", fault.Validation("howToFix is required")
	}
	severity := testcase.SeverityMedium
	if in.Severity != "" {
		severity = testcase.Severity(in.Severity)
		if !severity.Valid() {
			return "", fault.Validation("severity %q is not one of critical, high, medium, low", in.Severity)
		}
	}
	return severity, nil
}

func findRecommendation(tc *testcase.TestCase, id primitive.ObjectID) (*testcase.Recommendation, bool) {
	for i := range tc.Recommendations {
		if tc.Recommendations[i].ID == id {
			return &tc.Recommendations[i], true
		}
	}
	return nil, false
}
