package project

import "time"

type TesterRole string

const (
	RoleLead     TesterRole = "lead"
	RoleMember   TesterRole = "member"
	RoleReviewer TesterRole = "reviewer"
)

func (r TesterRole) Valid() bool {
	switch r {
	case RoleLead, RoleMember, RoleReviewer:
		return true
	}
	return false
}

type WorkStatus string

const (
	WorkAssigned WorkStatus = "assigned"
	WorkAccepted WorkStatus = "accepted"
	WorkWorking  WorkStatus = "working"
	WorkDone     WorkStatus = "done"
	WorkRemoved  WorkStatus = "removed"
)

// RejectedNote is recorded on the assignment when a tester rejects it.
const RejectedNote = "Rejected by tester"

// Assignment is one tester's engagement with a project. Removed entries are
// kept for audit history; at most one non-removed entry may exist per tester.
type Assignment struct {
	TesterID        string     `bson:"testerId" json:"testerId"`
	Role            TesterRole `bson:"role" json:"role"`
	WorkStatus      WorkStatus `bson:"workStatus" json:"workStatus"`
	AssignedAt      time.Time  `bson:"assignedAt" json:"assignedAt"`
	AssignedBy      string     `bson:"assignedBy" json:"assignedBy"`
	AcceptedAt      *time.Time `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	CompletedAt     *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Note            string     `bson:"note,omitempty" json:"note,omitempty"`
	ProgressPercent int        `bson:"progressPercent" json:"progressPercent"`
}

// WorkAction is one of the four transitions a tester may apply to their own
// assignment.
type WorkAction string

const (
	ActionAccept WorkAction = "accept"
	ActionReject WorkAction = "reject"
	ActionStart  WorkAction = "start"
	ActionDone   WorkAction = "done"
)

// workTransitions maps each tester action to its required source state and
// resulting state.
var workTransitions = map[WorkAction]struct {
	From WorkStatus
	To   WorkStatus
}{
	ActionAccept: {WorkAssigned, WorkAccepted},
	ActionReject: {WorkAssigned, WorkRemoved},
	ActionStart:  {WorkAccepted, WorkWorking},
	ActionDone:   {WorkWorking, WorkDone},
}

// Transition resolves a tester action to its (from, to) pair. ok is false
// for unknown actions.
func Transition(action WorkAction) (from, to WorkStatus, ok bool) {
	t, ok := workTransitions[action]
	return t.From, t.To, ok
}
