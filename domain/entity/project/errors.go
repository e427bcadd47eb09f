package project

import "errors"

var (
	ErrAlreadyAssigned    = errors.New("tester already has an active assignment on this project")
	ErrNotAssigned        = errors.New("tester has no active assignment on this project")
	ErrPreconditionFailed = errors.New("project state changed since read")
)
