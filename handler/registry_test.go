package handler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accessaudit/domain/auth"
	"accessaudit/domain/fault"
	"accessaudit/infrastructure/observability/noop"
)

func newRegistry(ops []Operation, middlewares ...Middleware) *Registry {
	return NewRegistry(noop.NewLogger(), noop.NewMetrics(), time.Second, middlewares, ops)
}

func request(operation string, caller auth.Identity) Request {
	return Request{
		ID:        "req-1",
		Operation: operation,
		Caller:    caller,
		Timestamp: time.Now().UTC(),
	}
}

var tester = auth.Identity{ID: "tester-1", Role: auth.RoleTester}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("routes to the named operation", func(t *testing.T) {
		r := newRegistry([]Operation{{
			Name: "echo",
			Run: func(ctx context.Context, req Request) (interface{}, error) {
				return map[string]string{"caller": req.Caller.ID}, nil
			},
		}})

		resp, err := r.Handle(ctx, request("echo", tester))
		require.NoError(t, err)
		require.True(t, resp.Success)

		var data map[string]string
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "tester-1", data["caller"])
	})

	t.Run("unknown operation is not found", func(t *testing.T) {
		r := newRegistry(nil)

		resp, err := r.Handle(ctx, request("nope", tester))
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("anonymous caller is rejected before the operation runs", func(t *testing.T) {
		ran := false
		r := newRegistry([]Operation{{
			Name: "echo",
			Run: func(ctx context.Context, req Request) (interface{}, error) {
				ran = true
				return nil, nil
			},
		}})

		resp, err := r.Handle(ctx, request("echo", auth.Identity{}))
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
		assert.False(t, ran)
	})
}

func TestErrorMapping(t *testing.T) {
	ctx := context.Background()

	failWith := func(err error) *Registry {
		return newRegistry([]Operation{{
			Name: "fail",
			Run:  func(ctx context.Context, req Request) (interface{}, error) { return nil, err },
		}})
	}

	cases := []struct {
		name      string
		err       error
		code      string
		retryable bool
	}{
		{"forbidden", fault.Forbidden("nope"), "FORBIDDEN", false},
		{"validation", fault.Validation("bad"), "VALIDATION_ERROR", false},
		{"conflict", fault.Conflict("dupe"), "CONFLICT", false},
		{"not found", fault.NotFound("project", "p1"), "NOT_FOUND", false},
		{"internal is retryable", fault.Internal("db", assert.AnError), "INTERNAL_ERROR", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, err := failWith(c.err).Handle(ctx, request("fail", tester))
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, c.code, resp.Error.Code)
			assert.Equal(t, c.retryable, resp.Error.Retryable)
		})
	}

	t.Run("invalid transition carries expected and actual", func(t *testing.T) {
		r := failWith(fault.InvalidTransition("cannot start", "accepted", "assigned"))

		resp, err := r.Handle(ctx, request("fail", tester))
		require.NoError(t, err)
		assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)
		assert.Equal(t, "accepted", resp.Error.Expected)
		assert.Equal(t, "assigned", resp.Error.Actual)
		assert.False(t, resp.Error.Retryable)
	})
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req Request) (Response, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	r := newRegistry([]Operation{{
		Name: "echo",
		Run:  func(ctx context.Context, req Request) (interface{}, error) { return "ok", nil },
	}}, mk("first"), mk("second"))

	_, err := r.Handle(context.Background(), request("echo", tester))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}
