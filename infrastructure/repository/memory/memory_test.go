package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accessaudit/domain/entity/project"
	"accessaudit/domain/entity/testcase"
	"accessaudit/domain/repository"
)

func seedProject(t *testing.T) (*Store, *project.Project) {
	t.Helper()
	store := NewStore()
	p := project.New("customer-1", "Audit", "", "", "WCAG 2.1 AA")
	require.NoError(t, store.Projects().Create(context.Background(), p))
	return store, p
}

func TestSetStatusIf(t *testing.T) {
	ctx := context.Background()

	t.Run("applies when the guard holds", func(t *testing.T) {
		store, p := seedProject(t)

		err := store.Projects().SetStatusIf(ctx, p.ID, project.StatusPending, project.StatusOpen, project.StatusChange{
			From: project.StatusPending, To: project.StatusOpen, ChangedAt: time.Now().UTC(),
		})
		require.NoError(t, err)

		got, err := store.Projects().Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, project.StatusOpen, got.Status)
		assert.Len(t, got.StatusHistory, 1)
	})

	t.Run("fails without writing when the guard does not hold", func(t *testing.T) {
		store, p := seedProject(t)
		require.NoError(t, store.Projects().SetStatus(ctx, p.ID, project.StatusOpen, project.StatusChange{}))

		err := store.Projects().SetStatusIf(ctx, p.ID, project.StatusPending, project.StatusOpen, project.StatusChange{})
		assert.ErrorIs(t, err, project.ErrPreconditionFailed)

		got, _ := store.Projects().Get(ctx, p.ID)
		assert.Len(t, got.StatusHistory, 1)
	})
}

func TestAssignmentGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate active assignment", func(t *testing.T) {
		store, p := seedProject(t)
		a := project.Assignment{TesterID: "t1", WorkStatus: project.WorkAssigned}

		require.NoError(t, store.Projects().AddAssignment(ctx, p.ID, a))
		assert.ErrorIs(t, store.Projects().AddAssignment(ctx, p.ID, a), project.ErrAlreadyAssigned)
	})

	t.Run("removed entry does not block re-assignment", func(t *testing.T) {
		store, p := seedProject(t)
		a := project.Assignment{TesterID: "t1", WorkStatus: project.WorkAssigned}
		require.NoError(t, store.Projects().AddAssignment(ctx, p.ID, a))
		require.NoError(t, store.Projects().RemoveAssignment(ctx, p.ID, "t1", "moved"))

		assert.NoError(t, store.Projects().AddAssignment(ctx, p.ID, a))
	})

	t.Run("removal without a note keeps the existing one", func(t *testing.T) {
		store, p := seedProject(t)
		a := project.Assignment{TesterID: "t1", WorkStatus: project.WorkAssigned, Note: "initial scope"}
		require.NoError(t, store.Projects().AddAssignment(ctx, p.ID, a))

		require.NoError(t, store.Projects().RemoveAssignment(ctx, p.ID, "t1", ""))

		got, err := store.Projects().Get(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, got.AssignedTesters, 1)
		assert.Equal(t, project.WorkRemoved, got.AssignedTesters[0].WorkStatus)
		assert.Equal(t, "initial scope", got.AssignedTesters[0].Note)
	})

	t.Run("removal with a note records it", func(t *testing.T) {
		store, p := seedProject(t)
		a := project.Assignment{TesterID: "t1", WorkStatus: project.WorkAssigned}
		require.NoError(t, store.Projects().AddAssignment(ctx, p.ID, a))

		require.NoError(t, store.Projects().RemoveAssignment(ctx, p.ID, "t1", "moved to another engagement"))

		got, err := store.Projects().Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "moved to another engagement", got.AssignedTesters[0].Note)
	})

	t.Run("update requires the expected source state", func(t *testing.T) {
		store, p := seedProject(t)
		a := project.Assignment{TesterID: "t1", WorkStatus: project.WorkAssigned}
		require.NoError(t, store.Projects().AddAssignment(ctx, p.ID, a))

		err := store.Projects().UpdateAssignment(ctx, p.ID, "t1", project.WorkWorking, repository.AssignmentUpdate{
			WorkStatus: project.WorkDone,
		})
		assert.ErrorIs(t, err, project.ErrPreconditionFailed)

		err = store.Projects().UpdateAssignment(ctx, p.ID, "t1", project.WorkAssigned, repository.AssignmentUpdate{
			WorkStatus: project.WorkAccepted,
		})
		assert.NoError(t, err)
	})
}

func TestSetResultUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	tc := &testcase.TestCase{Title: "check", Results: []testcase.Result{}}
	require.NoError(t, store.TestCases().Create(ctx, tc))

	upd := repository.ResultUpdate{Status: testcase.ResultPass, TestedAt: time.Now().UTC()}
	require.NoError(t, store.TestCases().SetResult(ctx, tc.ID, "t1", upd))

	upd.Status = testcase.ResultFail
	require.NoError(t, store.TestCases().SetResult(ctx, tc.ID, "t1", upd))

	require.NoError(t, store.TestCases().SetResult(ctx, tc.ID, "t2", repository.ResultUpdate{
		Status: testcase.ResultSkip, TestedAt: time.Now().UTC(),
	}))

	got, err := store.TestCases().Get(ctx, tc.ID)
	require.NoError(t, err)
	require.Len(t, got.Results, 2)
	r, ok := got.ResultFor("t1")
	require.True(t, ok)
	assert.Equal(t, testcase.ResultFail, r.Status)
	assert.Equal(t, testcase.ResultSkip, got.EffectiveStatus())
}

func TestAddAttachmentCreatesPendingEntry(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	tc := &testcase.TestCase{Title: "check", Results: []testcase.Result{}}
	require.NoError(t, store.TestCases().Create(ctx, tc))

	att := testcase.Attachment{Name: "shot.png", Size: 42, URL: "memory://attachments/shot.png"}
	require.NoError(t, store.TestCases().AddAttachment(ctx, tc.ID, "t1", att))

	got, err := store.TestCases().Get(ctx, tc.ID)
	require.NoError(t, err)
	r, ok := got.ResultFor("t1")
	require.True(t, ok)
	assert.Equal(t, testcase.ResultPending, r.Status)
	require.Len(t, r.Attachments, 1)
	assert.Equal(t, "shot.png", r.Attachments[0].Name)
}

func TestCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store, p := seedProject(t)

	got, err := store.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	got.Status = project.StatusCancelled
	got.AssignedTesters = append(got.AssignedTesters, project.Assignment{TesterID: "rogue"})

	fresh, err := store.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusPending, fresh.Status)
	assert.Empty(t, fresh.AssignedTesters)
}
