// Package testcase models one executable check within a scenario: its
// ordered steps, the per-tester results recorded against it, and the
// remediation recommendations reviewers attach to it.
package testcase

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Step struct {
	Order       int    `bson:"order" json:"order"`
	Instruction string `bson:"instruction" json:"instruction"`
}

type TestCase struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ScenarioID      primitive.ObjectID `bson:"scenarioId" json:"scenarioId"`
	AuditRequestID  primitive.ObjectID `bson:"auditRequestId" json:"auditRequestId"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Steps           []Step             `bson:"steps" json:"steps"`
	ExpectedResult  string             `bson:"expectedResult,omitempty" json:"expectedResult,omitempty"`
	Priority        Priority           `bson:"priority" json:"priority"`
	Order           int                `bson:"order" json:"order"`
	WCAGCriteria    []string           `bson:"wcagCriteria,omitempty" json:"wcagCriteria,omitempty"`
	Results         []Result           `bson:"results" json:"results"`
	Recommendations []Recommendation   `bson:"recommendations" json:"recommendations"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ResultFor returns the result entry recorded by the tester, if any.
func (tc *TestCase) ResultFor(testerID string) (*Result, bool) {
	for i := range tc.Results {
		if tc.Results[i].TesterID == testerID {
			return &tc.Results[i], true
		}
	}
	return nil, false
}

// EffectiveStatus is the status used for reporting: the last entry in the
// results list, or pending when no result has been recorded. The last entry
// is whichever tester's result was most recently appended, which is the
// historical behavior reports rely on.
func (tc *TestCase) EffectiveStatus() ResultStatus {
	if len(tc.Results) == 0 {
		return ResultPending
	}
	return tc.Results[len(tc.Results)-1].Status
}

// EffectiveResult returns the last result entry, or nil when none exists.
func (tc *TestCase) EffectiveResult() *Result {
	if len(tc.Results) == 0 {
		return nil
	}
	return &tc.Results[len(tc.Results)-1]
}
