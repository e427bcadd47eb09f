package execution

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"accessaudit/domain/auth"
	"accessaudit/domain/entity/scenario"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/fault"
	"accessaudit/domain/repository"
	"accessaudit/domain/storage"
)

// SubmitResultInput is a tester's verdict on a test case.
type SubmitResultInput struct {
	TestCaseID string `json:"testCaseId"`
	Status     string `json:"status"`
	Note       string `json:"note"`
}

// SubmitResult records the caller's verdict. The submission is an upsert
// keyed by tester identity: one entry per tester, never a duplicate. A
// verdict on test case k requires the caller to already hold a non-pending
// result on every lower-ordered test case in the same scenario.
func (s *Service) SubmitResult(ctx context.Context, caller auth.Identity, in SubmitResultInput) (*testcase.TestCase, error) {
	if err := caller.Require(auth.RoleTester); err != nil {
		return nil, err
	}
	status := testcase.ResultStatus(in.Status)
	if !status.Verdict() {
		return nil, fault.Validation("status %q is not one of pass, fail, skip", in.Status)
	}

	tc, err := s.loadTestCase(ctx, in.TestCaseID)
	if err != nil {
		return nil, err
	}
	sc, err := s.ownedScenario(ctx, caller, tc)
	if err != nil {
		return nil, err
	}

	if err := s.checkOrdering(ctx, caller.ID, sc, tc); err != nil {
		return nil, err
	}

	upd := repository.ResultUpdate{
		Status:   status,
		Note:     in.Note,
		TestedAt: time.Now().UTC(),
	}
	if err := s.testcases.SetResult(ctx, tc.ID, caller.ID, upd); err != nil {
		return nil, fault.Internal("record result", err)
	}

	s.logger.Info("Result recorded",
		"test_case_id", tc.ID.Hex(),
		"tester_id", caller.ID,
		"status", string(status))
	s.metrics.IncrementCounter("execution.results.submitted", map[string]string{"status": string(status)})

	return s.testcases.Get(ctx, tc.ID)
}

// checkOrdering enforces the sequential walkthrough: every test case in the
// scenario with a strictly smaller order must carry a non-pending result
// for this tester. Different testers progress independently.
func (s *Service) checkOrdering(ctx context.Context, testerID string, sc *scenario.Scenario, tc *testcase.TestCase) error {
	siblings, err := s.testcases.ListByScenario(ctx, sc.ID)
	if err != nil {
		return fault.Internal("list test cases", err)
	}
	for _, sib := range siblings {
		if sib.Order >= tc.Order || sib.ID == tc.ID {
			continue
		}
		r, ok := sib.ResultFor(testerID)
		if !ok || !r.Status.Verdict() {
			return fault.InvalidTransition(
				fmt.Sprintf("complete previous test cases first: %q (order %d) has no result", sib.Title, sib.Order),
				"non-pending result on all earlier test cases",
				fmt.Sprintf("test case %q pending", sib.Title))
		}
	}
	return nil
}

// AttachEvidenceInput is one uploaded file of evidence for the caller's own
// result.
type AttachEvidenceInput struct {
	TestCaseID  string `json:"testCaseId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

// AttachEvidence stores the file with the object-storage collaborator and
// appends the attachment record to the caller's result entry, creating the
// entry as pending when absent. The result status is never altered here.
func (s *Service) AttachEvidence(ctx context.Context, caller auth.Identity, in AttachEvidenceInput) (*testcase.TestCase, error) {
	if err := caller.Require(auth.RoleTester); err != nil {
		return nil, err
	}
	if in.FileName == "" {
		return nil, fault.Validation("fileName is required")
	}
	if len(in.Content) == 0 {
		return nil, fault.Validation("content is required")
	}

	tc, err := s.loadTestCase(ctx, in.TestCaseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedScenario(ctx, caller, tc); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("projects/%s/testcases/%s/%s%s",
		tc.AuditRequestID.Hex(), tc.ID.Hex(), uuid.NewString(), path.Ext(in.FileName))
	obj, err := s.objects.Put(ctx, key, bytes.NewReader(in.Content), storage.ObjectMetadata{
		ContentType: in.ContentType,
		Size:        int64(len(in.Content)),
	})
	if err != nil {
		return nil, fault.Internal("store attachment", err)
	}

	att := testcase.Attachment{
		Name:       in.FileName,
		Size:       obj.Size,
		Type:       in.ContentType,
		URL:        obj.URL,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.testcases.AddAttachment(ctx, tc.ID, caller.ID, att); err != nil {
		return nil, fault.Internal("record attachment", err)
	}

	s.logger.Info("Evidence attached",
		"test_case_id", tc.ID.Hex(),
		"tester_id", caller.ID,
		"size", obj.Size)
	s.metrics.IncrementCounter("execution.attachments.added", nil)
	s.metrics.RecordHistogram("execution.attachments.size_bytes", float64(obj.Size), nil)

	return s.testcases.Get(ctx, tc.ID)
}

// ownedScenario loads the test case's scenario and verifies the caller is
// its assigned tester. A tester assigned to the project but not to this
// scenario is forbidden.
func (s *Service) ownedScenario(ctx context.Context, caller auth.Identity, tc *testcase.TestCase) (*scenario.Scenario, error) {
	sc, err := s.scenarios.Get(ctx, tc.ScenarioID)
	if err != nil {
		return nil, fault.NotFound("scenario", tc.ScenarioID.Hex())
	}
	if sc.AssignedTesterID != caller.ID {
		return nil, fault.Forbidden("scenario %q is not assigned to tester %q", sc.ID.Hex(), caller.ID)
	}
	return sc, nil
}
