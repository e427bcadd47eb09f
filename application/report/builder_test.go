package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"accessaudit/domain/auth"
	"accessaudit/domain/entity/project"
	"accessaudit/domain/entity/scenario"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/entity/user"
	"accessaudit/domain/fault"
	"accessaudit/domain/wcag"
	"accessaudit/infrastructure/observability/noop"
	"accessaudit/infrastructure/repository/memory"
)

var admin = auth.Identity{ID: "admin-1", Name: "Alice Admin", Role: auth.RoleAdmin}

func newBuilder(t *testing.T) (*Builder, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddUser(user.User{ID: "tester-1", Name: "Tom Tester", Role: auth.RoleTester})
	store.AddUser(user.User{ID: "customer-1", Name: "Carol Customer", Role: auth.RoleCustomer})

	b := NewBuilder(store.Projects(), store.Scenarios(), store.TestCases(), store.Users(), noop.NewLogger(), noop.NewMetrics())
	return b, store
}

func seedProject(t *testing.T, store *memory.Store, standard string) *project.Project {
	t.Helper()
	p := project.New("customer-1", "Storefront audit", "", "https://shop.example.com", standard)
	p.AssignedTesters = []project.Assignment{{
		TesterID:   "tester-1",
		Role:       project.RoleLead,
		WorkStatus: project.WorkWorking,
		AssignedAt: time.Now().UTC(),
		AssignedBy: admin.ID,
	}}
	require.NoError(t, store.Projects().Create(context.Background(), p))
	return p
}

func seedScenario(t *testing.T, store *memory.Store, p *project.Project, order int) *scenario.Scenario {
	t.Helper()
	sc := scenario.New(p.ID, "Checkout flow", "", "tester-1", order)
	require.NoError(t, store.Scenarios().Create(context.Background(), sc))
	return sc
}

type caseSpec struct {
	title    string
	order    int
	criteria []string
	results  []testcase.Result
	recs     []testcase.Recommendation
}

func seedTestCase(t *testing.T, store *memory.Store, p *project.Project, sc *scenario.Scenario, spec caseSpec) *testcase.TestCase {
	t.Helper()
	now := time.Now().UTC()
	tc := &testcase.TestCase{
		ScenarioID:      sc.ID,
		AuditRequestID:  p.ID,
		Title:           spec.title,
		Priority:        testcase.PriorityMedium,
		Order:           spec.order,
		WCAGCriteria:    spec.criteria,
		Results:         spec.results,
		Recommendations: spec.recs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, store.TestCases().Create(context.Background(), tc))
	return tc
}

func passResult(testerID string) testcase.Result {
	now := time.Now().UTC()
	return testcase.Result{TesterID: testerID, Status: testcase.ResultPass, TestedAt: &now}
}

func failResult(testerID string) testcase.Result {
	now := time.Now().UTC()
	return testcase.Result{TesterID: testerID, Status: testcase.ResultFail, TestedAt: &now}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates summary criteria and conformance", func(t *testing.T) {
		b, store := newBuilder(t)
		p := seedProject(t, store, "WCAG 2.1 AA")
		sc := seedScenario(t, store, p, 1)

		seedTestCase(t, store, p, sc, caseSpec{
			title: "Images carry alt text", order: 1,
			criteria: []string{"1.1.1"},
			results:  []testcase.Result{passResult("tester-1")},
		})
		seedTestCase(t, store, p, sc, caseSpec{
			title: "Body text contrast", order: 2,
			criteria: []string{"1.4.3"},
			results:  []testcase.Result{failResult("tester-1")},
			recs: []testcase.Recommendation{{
				ID:       primitive.NewObjectID(),
				Title:    "Raise contrast of body copy",
				Severity: testcase.SeverityCritical,
			}},
		})

		rep, err := b.Generate(ctx, admin, p.ID.Hex())
		require.NoError(t, err)

		// Summary
		assert.Equal(t, 2, rep.Summary.TotalTestCases)
		assert.Equal(t, 1, rep.Summary.Pass)
		assert.Equal(t, 1, rep.Summary.Fail)
		assert.Equal(t, 0, rep.Summary.Skip)
		assert.Equal(t, 0, rep.Summary.Pending)
		assert.Equal(t, 50, rep.Summary.PassRate)
		assert.Equal(t, 1, rep.Summary.TotalRecommendations)
		assert.Equal(t, 1, rep.Summary.Severities.Critical)

		// Project info with resolved names
		assert.Equal(t, "Carol Customer", rep.Project.CustomerName)
		require.Len(t, rep.Project.Testers, 1)
		assert.Equal(t, "Tom Tester", rep.Project.Testers[0].Name)

		// Scenario grouping
		require.Len(t, rep.Scenarios, 1)
		require.Len(t, rep.Scenarios[0].TestCases, 2)
		assert.Equal(t, "Images carry alt text", rep.Scenarios[0].TestCases[0].Title)

		// WCAG rollup
		assert.Equal(t, wcag.LevelAA, rep.WCAGReport.TargetLevel)
		statuses := criterionStatuses(rep.WCAGReport)
		assert.Equal(t, CriterionPass, statuses["1.1.1"])
		assert.Equal(t, CriterionFail, statuses["1.4.3"])
		assert.Equal(t, CriterionNotTested, statuses["2.1.1"])

		// Principles in canonical order, restricted to the target level.
		require.Len(t, rep.WCAGReport.Principles, 4)
		assert.Equal(t, wcag.Perceivable, rep.WCAGReport.Principles[0].Principle)
		assert.Equal(t, wcag.Robust, rep.WCAGReport.Principles[3].Principle)
		for _, pr := range rep.WCAGReport.Principles {
			for _, c := range pr.Criteria {
				assert.NotEqual(t, wcag.LevelAAA, c.Level)
			}
		}

		// Conformance totals always span the full catalog.
		a := rep.WCAGReport.Conformance[wcag.LevelA]
		assert.Equal(t, LevelTotals{Total: 30, Pass: 1, Fail: 0, NotTested: 29}, a)
		aa := rep.WCAGReport.Conformance[wcag.LevelAA]
		assert.Equal(t, LevelTotals{Total: 20, Pass: 0, Fail: 1, NotTested: 19}, aa)
		aaa := rep.WCAGReport.Conformance[wcag.LevelAAA]
		assert.Equal(t, LevelTotals{Total: 28, Pass: 0, Fail: 0, NotTested: 28}, aaa)
	})

	t.Run("empty project reports zero pass rate and full catalog untested", func(t *testing.T) {
		b, store := newBuilder(t)
		p := seedProject(t, store, "WCAG 2.1 AA")

		rep, err := b.Generate(ctx, admin, p.ID.Hex())
		require.NoError(t, err)

		assert.Equal(t, 0, rep.Summary.TotalTestCases)
		assert.Equal(t, 0, rep.Summary.PassRate)
		assert.Empty(t, rep.Scenarios)
		a := rep.WCAGReport.Conformance[wcag.LevelA]
		assert.Equal(t, LevelTotals{Total: 30, NotTested: 30}, a)
	})

	t.Run("effective status is the last recorded result", func(t *testing.T) {
		b, store := newBuilder(t)
		p := seedProject(t, store, "WCAG 2.1 A")
		sc := seedScenario(t, store, p, 1)
		seedTestCase(t, store, p, sc, caseSpec{
			title: "Keyboard reachable", order: 1,
			criteria: []string{"2.1.1"},
			results:  []testcase.Result{passResult("tester-1"), failResult("tester-2")},
		})

		rep, err := b.Generate(ctx, admin, p.ID.Hex())
		require.NoError(t, err)

		assert.Equal(t, 1, rep.Summary.Fail)
		assert.Equal(t, 0, rep.Summary.Pass)
		require.Len(t, rep.Scenarios, 1)
		require.Len(t, rep.Scenarios[0].TestCases, 1)
		result := rep.Scenarios[0].TestCases[0].Result
		require.NotNil(t, result)
		assert.Equal(t, "tester-2", result.TesterID)
		assert.Equal(t, testcase.ResultFail, result.Status)
	})

	t.Run("unknown identities degrade to the raw id", func(t *testing.T) {
		b, store := newBuilder(t)
		p := project.New("customer-1", "Storefront audit", "", "", "WCAG 2.1 AA")
		p.AssignedTesters = []project.Assignment{{
			TesterID: "ghost-tester", Role: project.RoleMember, WorkStatus: project.WorkAssigned,
		}}
		require.NoError(t, store.Projects().Create(ctx, p))

		rep, err := b.Generate(ctx, admin, p.ID.Hex())
		require.NoError(t, err)

		require.Len(t, rep.Project.Testers, 1)
		assert.Equal(t, "ghost-tester", rep.Project.Testers[0].Name)
	})

	t.Run("missing project is not found", func(t *testing.T) {
		b, _ := newBuilder(t)

		_, err := b.Generate(ctx, admin, primitive.NewObjectID().Hex())
		assert.True(t, fault.IsKind(err, fault.KindNotFound))
	})

	t.Run("malformed id is a validation error", func(t *testing.T) {
		b, _ := newBuilder(t)

		_, err := b.Generate(ctx, admin, "nope")
		assert.True(t, fault.IsKind(err, fault.KindValidation))
	})

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		b, _ := newBuilder(t)

		_, err := b.Generate(ctx, auth.Identity{}, primitive.NewObjectID().Hex())
		assert.True(t, fault.IsKind(err, fault.KindUnauthorized))
	})
}

func criterionStatuses(rep WCAGReport) map[string]CriterionStatus {
	out := make(map[string]CriterionStatus)
	for _, pr := range rep.Principles {
		for _, c := range pr.Criteria {
			out[c.ID] = c.Status
		}
	}
	return out
}

func TestBuildSummaryRounding(t *testing.T) {
	mk := func(status testcase.ResultStatus) *testcase.TestCase {
		return &testcase.TestCase{Results: []testcase.Result{{TesterID: "t", Status: status}}}
	}

	t.Run("one of three rounds to 33", func(t *testing.T) {
		sum := buildSummary([]*testcase.TestCase{mk(testcase.ResultPass), mk(testcase.ResultFail), mk(testcase.ResultFail)})
		assert.Equal(t, 33, sum.PassRate)
	})

	t.Run("two of three rounds to 67", func(t *testing.T) {
		sum := buildSummary([]*testcase.TestCase{mk(testcase.ResultPass), mk(testcase.ResultPass), mk(testcase.ResultFail)})
		assert.Equal(t, 67, sum.PassRate)
	})

	t.Run("cases without results count as pending", func(t *testing.T) {
		sum := buildSummary([]*testcase.TestCase{{}, mk(testcase.ResultPass)})
		assert.Equal(t, 1, sum.Pending)
		assert.Equal(t, 50, sum.PassRate)
	})
}

func TestCriterionStatus(t *testing.T) {
	mk := func(status testcase.ResultStatus) *testcase.TestCase {
		return &testcase.TestCase{Results: []testcase.Result{{TesterID: "t", Status: status}}}
	}

	t.Run("fail dominates", func(t *testing.T) {
		got := criterionStatus([]*testcase.TestCase{mk(testcase.ResultPass), mk(testcase.ResultFail)})
		assert.Equal(t, CriterionFail, got)
	})

	t.Run("unanimous pass passes", func(t *testing.T) {
		got := criterionStatus([]*testcase.TestCase{mk(testcase.ResultPass), mk(testcase.ResultPass)})
		assert.Equal(t, CriterionPass, got)
	})

	t.Run("pass plus skip is not tested", func(t *testing.T) {
		got := criterionStatus([]*testcase.TestCase{mk(testcase.ResultPass), mk(testcase.ResultSkip)})
		assert.Equal(t, CriterionNotTested, got)
	})

	t.Run("no tagging cases is not tested", func(t *testing.T) {
		assert.Equal(t, CriterionNotTested, criterionStatus(nil))
	})
}
