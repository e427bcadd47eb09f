// Package user holds the minimal profile the platform reads from the
// identity collaborator's user directory: enough to validate assignment
// targets and resolve display names in reports.
package user

import "accessaudit/domain/auth"

type User struct {
	ID    string    `bson:"_id" json:"id"`
	Name  string    `bson:"name" json:"name"`
	Email string    `bson:"email,omitempty" json:"email,omitempty"`
	Role  auth.Role `bson:"role" json:"role"`
}
