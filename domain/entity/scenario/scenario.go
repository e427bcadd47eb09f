// Package scenario models a tester-assigned grouping of ordered test cases
// within an audit project.
package scenario

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Scenario struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuditRequestID   primitive.ObjectID `bson:"auditRequestId" json:"auditRequestId"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	AssignedTesterID string             `bson:"assignedTesterId" json:"assignedTesterId"`
	Order            int                `bson:"order" json:"order"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func New(auditRequestID primitive.ObjectID, title, description, assignedTesterID string, order int) *Scenario {
	now := time.Now().UTC()
	return &Scenario{
		AuditRequestID:   auditRequestID,
		Title:            title,
		Description:      description,
		AssignedTesterID: assignedTesterID,
		Order:            order,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
