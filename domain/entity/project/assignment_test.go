package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		action WorkAction
		from   WorkStatus
		to     WorkStatus
	}{
		{ActionAccept, WorkAssigned, WorkAccepted},
		{ActionReject, WorkAssigned, WorkRemoved},
		{ActionStart, WorkAccepted, WorkWorking},
		{ActionDone, WorkWorking, WorkDone},
	}
	for _, c := range cases {
		t.Run(string(c.action), func(t *testing.T) {
			from, to, ok := Transition(c.action)
			require.True(t, ok)
			assert.Equal(t, c.from, from)
			assert.Equal(t, c.to, to)
		})
	}

	t.Run("unknown action", func(t *testing.T) {
		_, _, ok := Transition(WorkAction("pause"))
		assert.False(t, ok)
	})
}

func TestActiveAssignment(t *testing.T) {
	p := &Project{AssignedTesters: []Assignment{
		{TesterID: "t1", WorkStatus: WorkRemoved},
		{TesterID: "t1", WorkStatus: WorkAccepted},
		{TesterID: "t2", WorkStatus: WorkRemoved},
	}}

	t.Run("skips removed entries", func(t *testing.T) {
		a, ok := p.ActiveAssignment("t1")
		require.True(t, ok)
		assert.Equal(t, WorkAccepted, a.WorkStatus)
	})

	t.Run("only removed entries means not assigned", func(t *testing.T) {
		_, ok := p.ActiveAssignment("t2")
		assert.False(t, ok)
	})

	t.Run("unknown tester", func(t *testing.T) {
		_, ok := p.ActiveAssignment("t3")
		assert.False(t, ok)
	})
}
