package handler

import (
	"context"
	"errors"
	"time"

	"accessaudit/domain/fault"
	"accessaudit/domain/observability"
)

// Registry dispatches requests to named operations behind a middleware
// chain: recovery first, then logging and metrics, then the boundary
// authorization check, then the operation itself.
type Registry struct {
	operations map[string]Operation
	chain      HandlerFunc
	logger     observability.Logger
	metrics    observability.Metrics
	timeout    time.Duration
}

func NewRegistry(logger observability.Logger, metrics observability.Metrics, timeout time.Duration, middlewares []Middleware, operations []Operation) *Registry {
	r := &Registry{
		operations: make(map[string]Operation, len(operations)),
		logger:     logger,
		metrics:    metrics,
		timeout:    timeout,
	}
	for _, op := range operations {
		r.operations[op.Name] = op
	}

	next := r.dispatch
	for i := len(middlewares) - 1; i >= 0; i-- {
		next = middlewares[i](next)
	}
	r.chain = next
	return r
}

func (r *Registry) Handle(ctx context.Context, req Request) (Response, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.chain(ctx, req)
}

func (r *Registry) Logger() observability.Logger   { return r.logger }
func (r *Registry) Metrics() observability.Metrics { return r.metrics }

// Operations returns the registered operation names.
func (r *Registry) Operations() []string {
	names := make([]string, 0, len(r.operations))
	for name := range r.operations {
		names = append(names, name)
	}
	return names
}

func (r *Registry) dispatch(ctx context.Context, req Request) (Response, error) {
	op, ok := r.operations[req.Operation]
	if !ok {
		return errorResponse(fault.NotFound("operation", req.Operation)), nil
	}

	// Anonymous requests never reach an operation. The role and ownership
	// capability check runs once inside the operation, parameterized by
	// this identity.
	if req.Caller.ID == "" {
		return errorResponse(fault.Unauthorized("missing caller identity")), nil
	}

	data, err := op.Run(ctx, req)
	if err != nil {
		return errorResponse(err), nil
	}
	resp, err := NewSuccessResponse(data)
	if err != nil {
		return errorResponse(fault.Internal("encode response", err)), nil
	}
	return resp, nil
}

// errorResponse maps a fault kind to the wire error surface.
func errorResponse(err error) Response {
	code := "INTERNAL_ERROR"
	retryable := false
	switch fault.KindOf(err) {
	case fault.KindUnauthorized:
		code = "UNAUTHORIZED"
	case fault.KindForbidden:
		code = "FORBIDDEN"
	case fault.KindValidation:
		code = "VALIDATION_ERROR"
	case fault.KindConflict:
		code = "CONFLICT"
	case fault.KindNotFound:
		code = "NOT_FOUND"
	case fault.KindInvalidTransition:
		code = "INVALID_TRANSITION"
	case fault.KindInternal:
		retryable = true
	}

	resp := NewErrorResponse(code, err.Error(), retryable)
	var fe *fault.Error
	if errors.As(err, &fe) && fe.Kind == fault.KindInvalidTransition {
		resp.Error.Expected = fe.Expected
		resp.Error.Actual = fe.Actual
	}
	return resp
}
