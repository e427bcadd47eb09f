package handler

import (
	"context"

	"accessaudit/domain/observability"
)

// Handler processes requests through the middleware chain.
type Handler interface {
	Handle(ctx context.Context, req Request) (Response, error)
	Logger() observability.Logger
	Metrics() observability.Metrics
}

// Operation is one registered business operation. The dispatcher rejects
// anonymous requests; the role and ownership capability check happens once
// inside the operation itself, parameterized by the caller identity.
type Operation struct {
	Name string
	Run  func(ctx context.Context, req Request) (interface{}, error)
}

// Middleware wraps handler functions.
type Middleware func(next HandlerFunc) HandlerFunc

// HandlerFunc processes a single request.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

// Adapter is a platform-specific runtime (HTTP server, Lambda).
type Adapter interface {
	Start() error
}
