package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"accessaudit/domain/observability"
	"accessaudit/handler"
)

func Recovery(logger observability.Logger) handler.Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx context.Context, req handler.Request) (resp handler.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Panic recovered",
						"request_id", req.ID,
						"operation", req.Operation,
						"panic", fmt.Sprintf("%v", r),
						"stack", string(debug.Stack()))

					err = fmt.Errorf("panic recovered: %v", r)
					resp = handler.NewErrorResponse("INTERNAL_ERROR", "An internal error occurred", false)
				}
			}()

			return next(ctx, req)
		}
	}
}
