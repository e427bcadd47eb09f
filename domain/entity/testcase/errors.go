package testcase

import "errors"

var (
	ErrNotInScenario      = errors.New("test case does not belong to the given scenario")
	ErrPreconditionFailed = errors.New("test case state changed since read")
)
