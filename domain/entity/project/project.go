package project

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is one audit engagement: a customer's request plus the testers
// assigned to it and the full history of its status changes.
type Project struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID      string             `bson:"customerId" json:"customerId"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	SiteURL         string             `bson:"siteUrl,omitempty" json:"siteUrl,omitempty"`
	Standard        string             `bson:"standard,omitempty" json:"standard,omitempty"` // e.g. "WCAG 2.1 AA"
	Status          Status             `bson:"status" json:"status"`
	AssignedTesters []Assignment       `bson:"assignedTesters" json:"assignedTesters"`
	StatusHistory   []StatusChange     `bson:"statusHistory" json:"statusHistory"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// StatusChange is one append-only entry in the project's status log.
type StatusChange struct {
	From      Status    `bson:"from" json:"from"`
	To        Status    `bson:"to" json:"to"`
	ChangedAt time.Time `bson:"changedAt" json:"changedAt"`
	ChangedBy string    `bson:"changedBy" json:"changedBy"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
}

func New(customerID, title, description, siteURL, standard string) *Project {
	now := time.Now().UTC()
	return &Project{
		CustomerID:      customerID,
		Title:           title,
		Description:     description,
		SiteURL:         siteURL,
		Standard:        standard,
		Status:          StatusPending,
		AssignedTesters: []Assignment{},
		StatusHistory:   []StatusChange{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ActiveAssignment returns the non-removed assignment for the tester, if any.
func (p *Project) ActiveAssignment(testerID string) (*Assignment, bool) {
	for i := range p.AssignedTesters {
		a := &p.AssignedTesters[i]
		if a.TesterID == testerID && a.WorkStatus != WorkRemoved {
			return a, true
		}
	}
	return nil, false
}
