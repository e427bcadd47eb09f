// Package api binds the application services to named handler operations.
package api

import (
	"context"

	"accessaudit/application/engagement"
	"accessaudit/application/execution"
	"accessaudit/application/report"
	"accessaudit/domain/fault"
	"accessaudit/handler"
)

// Routes returns the full operation table of the platform.
func Routes(eng *engagement.Service, exec *execution.Service, rep *report.Builder) []handler.Operation {
	return []handler.Operation{
		// Engagement lifecycle
		op("project.create", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in engagement.CreateProjectInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return eng.CreateProject(ctx, req.Caller, in)
		}),
		op("project.get", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in struct {
				ProjectID string `json:"projectId"`
			}
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return eng.GetProject(ctx, req.Caller, in.ProjectID)
		}),
		op("project.list", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in struct {
				CustomerID string `json:"customerId"`
			}
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return eng.ListProjects(ctx, req.Caller, in.CustomerID)
		}),
		op("project.status.update", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in engagement.UpdateStatusInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return eng.UpdateProjectStatus(ctx, req.Caller, in)
		}),
		op("project.tester.assign", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in engagement.AssignTesterInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return eng.AssignTester(ctx, req.Caller, in)
		}),
		op("project.tester.remove", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in engagement.RemoveTesterInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return eng.RemoveTester(ctx, req.Caller, in)
		}),
		op("project.work.action", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in engagement.WorkActionInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return eng.ApplyWorkAction(ctx, req.Caller, in)
		}),
		op("project.work.progress", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in engagement.SetProgressInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return eng.SetProgress(ctx, req.Caller, in)
		}),

		// Test execution
		op("scenario.create", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in execution.CreateScenarioInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.CreateScenario(ctx, req.Caller, in)
		}),
		op("scenario.update", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in execution.UpdateScenarioInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.UpdateScenario(ctx, req.Caller, in)
		}),
		op("scenario.delete", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in struct {
				ScenarioID string `json:"scenarioId"`
			}
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return deleted(exec.DeleteScenario(ctx, req.Caller, in.ScenarioID))
		}),
		op("scenario.list", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in struct {
				ProjectID string `json:"projectId"`
			}
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.ListScenarios(ctx, req.Caller, in.ProjectID)
		}),
		op("testcase.create", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in execution.CreateTestCaseInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.CreateTestCase(ctx, req.Caller, in)
		}),
		op("testcase.update", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in execution.UpdateTestCaseInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.UpdateTestCase(ctx, req.Caller, in)
		}),
		op("testcase.delete", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in struct {
				TestCaseID string `json:"testCaseId"`
			}
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return deleted(exec.DeleteTestCase(ctx, req.Caller, in.TestCaseID))
		}),
		op("testcase.list", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in struct {
				ScenarioID string `json:"scenarioId"`
			}
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.ListTestCases(ctx, req.Caller, in.ScenarioID)
		}),
		op("testcase.result.submit", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in execution.SubmitResultInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.SubmitResult(ctx, req.Caller, in)
		}),
		op("testcase.result.attach", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in execution.AttachEvidenceInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.AttachEvidence(ctx, req.Caller, in)
		}),
		op("testcase.recommendation.add", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in execution.RecommendationInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.AddRecommendation(ctx, req.Caller, in)
		}),
		op("testcase.recommendation.update", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in execution.UpdateRecommendationInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return exec.UpdateRecommendation(ctx, req.Caller, in)
		}),
		op("testcase.recommendation.delete", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in execution.DeleteRecommendationInput
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return deleted(exec.DeleteRecommendation(ctx, req.Caller, in))
		}),

		// Conformance report
		op("report.generate", func(ctx context.Context, req handler.Request) (interface{}, error) {
			var in struct {
				ProjectID string `json:"projectId"`
			}
			if err := req.Unmarshal(&in); err != nil {
				return nil, fault.Validation("invalid payload: %v", err)
			}
			return rep.Generate(ctx, req.Caller, in.ProjectID)
		}),
	}
}

func op(name string, run func(ctx context.Context, req handler.Request) (interface{}, error)) handler.Operation {
	return handler.Operation{Name: name, Run: run}
}

// deleted shapes a destructive operation's empty success payload.
func deleted(err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return map[string]bool{"deleted": true}, nil
}
