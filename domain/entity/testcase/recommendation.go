package testcase

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Recommendation is admin-authored remediation guidance attached to a test
// case, typically after reviewing a failure.
type Recommendation struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Severity     Severity           `bson:"severity" json:"severity"`
	HowToFix     string             `bson:"howToFix" json:"howToFix"`
	Technique    string             `bson:"technique,omitempty" json:"technique,omitempty"`
	ReferenceURL string             `bson:"referenceUrl,omitempty" json:"referenceUrl,omitempty"`
	CodeSnippet  string             `bson:"codeSnippet,omitempty" json:"codeSnippet,omitempty"`
	CreatedBy    string             `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
