package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accessaudit/domain/auth"
	"accessaudit/domain/entity/project"
	"accessaudit/domain/entity/scenario"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/entity/user"
	"accessaudit/domain/fault"
	"accessaudit/infrastructure/observability/noop"
	"accessaudit/infrastructure/repository/memory"
	memstorage "accessaudit/infrastructure/storage/memory"
)

var (
	admin   = auth.Identity{ID: "admin-1", Name: "Alice Admin", Role: auth.RoleAdmin}
	tester  = auth.Identity{ID: "tester-1", Name: "Tom Tester", Role: auth.RoleTester}
	tester2 = auth.Identity{ID: "tester-2", Name: "Tara Tester", Role: auth.RoleTester}
)

type fixture struct {
	svc     *Service
	store   *memory.Store
	objects *memstorage.Storage
	project *project.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddUser(user.User{ID: tester.ID, Name: tester.Name, Role: auth.RoleTester})
	store.AddUser(user.User{ID: tester2.ID, Name: tester2.Name, Role: auth.RoleTester})

	objects := memstorage.New("")
	svc := NewService(store.Projects(), store.Scenarios(), store.TestCases(), store.Users(), objects, noop.NewLogger(), noop.NewMetrics())

	p := project.New("customer-1", "Storefront audit", "", "https://shop.example.com", "WCAG 2.1 AA")
	require.NoError(t, store.Projects().Create(context.Background(), p))

	return &fixture{svc: svc, store: store, objects: objects, project: p}
}

func (f *fixture) createScenario(t *testing.T, testerID string) *scenario.Scenario {
	t.Helper()
	sc, err := f.svc.CreateScenario(context.Background(), admin, CreateScenarioInput{
		ProjectID:        f.project.ID.Hex(),
		Title:            "Checkout flow",
		AssignedTesterID: testerID,
	})
	require.NoError(t, err)
	return sc
}

func (f *fixture) createTestCase(t *testing.T, scenarioID string, title string, order *int) *testcase.TestCase {
	t.Helper()
	tc, err := f.svc.CreateTestCase(context.Background(), admin, CreateTestCaseInput{
		ScenarioID: scenarioID,
		Title:      title,
		Order:      order,
	})
	require.NoError(t, err)
	return tc
}

func intPtr(v int) *int { return &v }

func TestCreateScenario(t *testing.T) {
	ctx := context.Background()

	t.Run("order defaults past the highest sibling", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.svc.CreateScenario(ctx, admin, CreateScenarioInput{
			ProjectID: f.project.ID.Hex(), Title: "Navigation", AssignedTesterID: tester.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, first.Order)

		second, err := f.svc.CreateScenario(ctx, admin, CreateScenarioInput{
			ProjectID: f.project.ID.Hex(), Title: "Forms", AssignedTesterID: tester.ID, Order: intPtr(10),
		})
		require.NoError(t, err)
		assert.Equal(t, 10, second.Order)

		third, err := f.svc.CreateScenario(ctx, admin, CreateScenarioInput{
			ProjectID: f.project.ID.Hex(), Title: "Media", AssignedTesterID: tester.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 11, third.Order)
	})

	t.Run("rejects an assignee that is not a tester", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateScenario(ctx, admin, CreateScenarioInput{
			ProjectID: f.project.ID.Hex(), Title: "Navigation", AssignedTesterID: "nobody",
		})
		assert.True(t, fault.IsKind(err, fault.KindNotFound))
	})

	t.Run("requires admin role", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateScenario(ctx, tester, CreateScenarioInput{
			ProjectID: f.project.ID.Hex(), Title: "Navigation", AssignedTesterID: tester.ID,
		})
		assert.True(t, fault.IsKind(err, fault.KindForbidden))
	})
}

func TestCreateTestCase(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults priority to medium and sorts steps", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)

		tc, err := f.svc.CreateTestCase(ctx, admin, CreateTestCaseInput{
			ScenarioID: sc.ID.Hex(),
			Title:      "Images carry alt text",
			Steps: []StepInput{
				{Order: 2, Instruction: "Inspect each image"},
				{Order: 1, Instruction: "Open the landing page"},
			},
			WCAGCriteria: []string{"1.1.1"},
		})
		require.NoError(t, err)

		assert.Equal(t, testcase.PriorityMedium, tc.Priority)
		assert.Equal(t, 1, tc.Order)
		require.Len(t, tc.Steps, 2)
		assert.Equal(t, 1, tc.Steps[0].Order)
		assert.Equal(t, 2, tc.Steps[1].Order)
		assert.Equal(t, testcase.ResultPending, tc.EffectiveStatus())
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)

		_, err := f.svc.CreateTestCase(ctx, admin, CreateTestCaseInput{
			ScenarioID: sc.ID.Hex(), Title: "x", Priority: "urgent",
		})
		assert.True(t, fault.IsKind(err, fault.KindValidation))
	})
}

func TestSubmitResult(t *testing.T) {
	ctx := context.Background()

	t.Run("records a verdict for the caller", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		got, err := f.svc.SubmitResult(ctx, tester, SubmitResultInput{
			TestCaseID: tc.ID.Hex(), Status: "pass", Note: "all good",
		})
		require.NoError(t, err)

		r, ok := got.ResultFor(tester.ID)
		require.True(t, ok)
		assert.Equal(t, testcase.ResultPass, r.Status)
		assert.Equal(t, "all good", r.Note)
		assert.NotNil(t, r.TestedAt)
		assert.Equal(t, testcase.ResultPass, got.EffectiveStatus())
	})

	t.Run("resubmission upserts instead of appending", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		_, err := f.svc.SubmitResult(ctx, tester, SubmitResultInput{TestCaseID: tc.ID.Hex(), Status: "pass"})
		require.NoError(t, err)

		got, err := f.svc.SubmitResult(ctx, tester, SubmitResultInput{TestCaseID: tc.ID.Hex(), Status: "fail", Note: "missing alt on hero"})
		require.NoError(t, err)

		require.Len(t, got.Results, 1)
		assert.Equal(t, testcase.ResultFail, got.Results[0].Status)
		assert.Equal(t, "missing alt on hero", got.Results[0].Note)
	})

	t.Run("requires earlier test cases to be completed first", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		f.createTestCase(t, sc.ID.Hex(), "First check", intPtr(1))
		second := f.createTestCase(t, sc.ID.Hex(), "Second check", intPtr(2))

		_, err := f.svc.SubmitResult(ctx, tester, SubmitResultInput{TestCaseID: second.ID.Hex(), Status: "pass"})
		require.Error(t, err)

		var fe *fault.Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, fault.KindInvalidTransition, fe.Kind)
		assert.Contains(t, fe.Message, "complete previous test cases first")

		// The rejected submission leaves no result behind.
		fresh, err := f.svc.ListTestCases(ctx, admin, sc.ID.Hex())
		require.NoError(t, err)
		for _, tc := range fresh {
			if tc.ID == second.ID {
				assert.Empty(t, tc.Results)
			}
		}
	})

	t.Run("ordering unlocks once the earlier verdict lands", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		first := f.createTestCase(t, sc.ID.Hex(), "First check", intPtr(1))
		second := f.createTestCase(t, sc.ID.Hex(), "Second check", intPtr(2))

		_, err := f.svc.SubmitResult(ctx, tester, SubmitResultInput{TestCaseID: first.ID.Hex(), Status: "skip"})
		require.NoError(t, err)

		_, err = f.svc.SubmitResult(ctx, tester, SubmitResultInput{TestCaseID: second.ID.Hex(), Status: "pass"})
		assert.NoError(t, err)
	})

	t.Run("a tester not assigned to the scenario is forbidden", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		_, err := f.svc.SubmitResult(ctx, tester2, SubmitResultInput{TestCaseID: tc.ID.Hex(), Status: "pass"})
		assert.True(t, fault.IsKind(err, fault.KindForbidden))
	})

	t.Run("pending is not a submittable verdict", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		_, err := f.svc.SubmitResult(ctx, tester, SubmitResultInput{TestCaseID: tc.ID.Hex(), Status: "pending"})
		assert.True(t, fault.IsKind(err, fault.KindValidation))
	})
}

func TestAttachEvidence(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending result entry when none exists", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		got, err := f.svc.AttachEvidence(ctx, tester, AttachEvidenceInput{
			TestCaseID:  tc.ID.Hex(),
			FileName:    "screenshot.png",
			ContentType: "image/png",
			Content:     []byte("fake-png-bytes"),
		})
		require.NoError(t, err)

		r, ok := got.ResultFor(tester.ID)
		require.True(t, ok)
		assert.Equal(t, testcase.ResultPending, r.Status)
		require.Len(t, r.Attachments, 1)
		att := r.Attachments[0]
		assert.Equal(t, "screenshot.png", att.Name)
		assert.Equal(t, int64(len("fake-png-bytes")), att.Size)
		assert.Equal(t, "image/png", att.Type)
		assert.NotEmpty(t, att.URL)

		exists, err := f.objects.Exists(ctx, attachmentKey(att.URL))
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("attaching does not alter a submitted verdict", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		_, err := f.svc.SubmitResult(ctx, tester, SubmitResultInput{TestCaseID: tc.ID.Hex(), Status: "fail"})
		require.NoError(t, err)

		got, err := f.svc.AttachEvidence(ctx, tester, AttachEvidenceInput{
			TestCaseID: tc.ID.Hex(), FileName: "trace.txt", ContentType: "text/plain", Content: []byte("log"),
		})
		require.NoError(t, err)

		r, ok := got.ResultFor(tester.ID)
		require.True(t, ok)
		assert.Equal(t, testcase.ResultFail, r.Status)
		assert.Len(t, r.Attachments, 1)
	})

	t.Run("requires file name and content", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		_, err := f.svc.AttachEvidence(ctx, tester, AttachEvidenceInput{TestCaseID: tc.ID.Hex(), Content: []byte("x")})
		assert.True(t, fault.IsKind(err, fault.KindValidation))

		_, err = f.svc.AttachEvidence(ctx, tester, AttachEvidenceInput{TestCaseID: tc.ID.Hex(), FileName: "a.png"})
		assert.True(t, fault.IsKind(err, fault.KindValidation))
	})
}

// attachmentKey strips the in-memory storage base URL prefix.
func attachmentKey(url string) string {
	const prefix = "memory://attachments/"
	return url[len(prefix):]
}

func TestDeleteScenario(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to the scenario's test cases", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		other := f.createScenario(t, tester2.ID)
		f.createTestCase(t, sc.ID.Hex(), "First check", nil)
		f.createTestCase(t, sc.ID.Hex(), "Second check", nil)
		kept := f.createTestCase(t, other.ID.Hex(), "Unrelated check", nil)

		require.NoError(t, f.svc.DeleteScenario(ctx, admin, sc.ID.Hex()))

		_, err := f.svc.ListTestCases(ctx, admin, sc.ID.Hex())
		assert.True(t, fault.IsKind(err, fault.KindNotFound))

		remaining, err := f.svc.ListTestCases(ctx, admin, other.ID.Hex())
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, kept.ID, remaining[0].ID)
	})
}

func TestListTestCases(t *testing.T) {
	ctx := context.Background()

	t.Run("returned in execution order", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		f.createTestCase(t, sc.ID.Hex(), "Third", intPtr(3))
		f.createTestCase(t, sc.ID.Hex(), "First", intPtr(1))
		f.createTestCase(t, sc.ID.Hex(), "Second", intPtr(2))

		list, err := f.svc.ListTestCases(ctx, admin, sc.ID.Hex())
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "First", list[0].Title)
		assert.Equal(t, "Second", list[1].Title)
		assert.Equal(t, "Third", list[2].Title)
	})
}

func TestRecommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("severity defaults to medium", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		got, err := f.svc.AddRecommendation(ctx, admin, RecommendationInput{
			TestCaseID:  tc.ID.Hex(),
			Title:       "Add alt text to hero image",
			Description: "The hero image has no text alternative.",
			HowToFix:    "Set a descriptive alt attribute.",
		})
		require.NoError(t, err)

		require.Len(t, got.Recommendations, 1)
		rec := got.Recommendations[0]
		assert.Equal(t, testcase.SeverityMedium, rec.Severity)
		assert.Equal(t, admin.ID, rec.CreatedBy)
		assert.False(t, rec.ID.IsZero())
	})

	t.Run("update preserves author and creation time", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		got, err := f.svc.AddRecommendation(ctx, admin, RecommendationInput{
			TestCaseID: tc.ID.Hex(), Title: "Add alt text", Description: "d", HowToFix: "f",
		})
		require.NoError(t, err)
		rec := got.Recommendations[0]

		updated, err := f.svc.UpdateRecommendation(ctx, admin, UpdateRecommendationInput{
			RecommendationID: rec.ID.Hex(),
			RecommendationInput: RecommendationInput{
				TestCaseID: tc.ID.Hex(), Title: "Add alt text everywhere", Description: "d2", HowToFix: "f2", Severity: "critical",
			},
		})
		require.NoError(t, err)

		require.Len(t, updated.Recommendations, 1)
		r := updated.Recommendations[0]
		assert.Equal(t, "Add alt text everywhere", r.Title)
		assert.Equal(t, testcase.SeverityCritical, r.Severity)
		assert.Equal(t, rec.CreatedBy, r.CreatedBy)
		assert.Equal(t, rec.CreatedAt, r.CreatedAt)
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		_, err := f.svc.AddRecommendation(ctx, admin, RecommendationInput{TestCaseID: tc.ID.Hex(), Title: "t", Description: "d"})
		assert.True(t, fault.IsKind(err, fault.KindValidation))
	})

	t.Run("delete removes the named entry", func(t *testing.T) {
		f := newFixture(t)
		sc := f.createScenario(t, tester.ID)
		tc := f.createTestCase(t, sc.ID.Hex(), "Images carry alt text", nil)

		got, err := f.svc.AddRecommendation(ctx, admin, RecommendationInput{
			TestCaseID: tc.ID.Hex(), Title: "t", Description: "d", HowToFix: "f",
		})
		require.NoError(t, err)
		rec := got.Recommendations[0]

		require.NoError(t, f.svc.DeleteRecommendation(ctx, admin, DeleteRecommendationInput{
			TestCaseID: tc.ID.Hex(), RecommendationID: rec.ID.Hex(),
		}))

		err = f.svc.DeleteRecommendation(ctx, admin, DeleteRecommendationInput{
			TestCaseID: tc.ID.Hex(), RecommendationID: rec.ID.Hex(),
		})
		assert.True(t, fault.IsKind(err, fault.KindNotFound))
	})
}
