package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("reports the kind of package errors", func(t *testing.T) {
		assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
		assert.Equal(t, KindNotFound, KindOf(NotFound("project", "p1")))
		assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	})

	t.Run("foreign errors default to internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	})

	t.Run("unwraps wrapped errors", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", Forbidden("nope"))
		assert.Equal(t, KindForbidden, KindOf(wrapped))
		assert.True(t, IsKind(wrapped, KindForbidden))
	})
}

func TestInvalidTransition(t *testing.T) {
	err := InvalidTransition("cannot start from assigned", "accepted", "assigned")

	assert.Equal(t, "accepted", err.Expected)
	assert.Equal(t, "assigned", err.Actual)
	assert.Contains(t, err.Error(), `expected "accepted"`)
	assert.Contains(t, err.Error(), `actual "assigned"`)
}

func TestInternalPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("load project", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, `not_found: project "p1" not found`, NotFound("project", "p1").Error())
}
