package middleware

import (
	"context"
	"time"

	"accessaudit/domain/observability"
	"accessaudit/handler"
)

func Logging(logger observability.Logger) handler.Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx context.Context, req handler.Request) (handler.Response, error) {
			start := time.Now()

			logger.Info("Processing request",
				"request_id", req.ID,
				"operation", req.Operation,
				"caller_id", req.Caller.ID,
				"caller_role", string(req.Caller.Role))

			resp, err := next(ctx, req)

			fields := []interface{}{
				"request_id", req.ID,
				"operation", req.Operation,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case err != nil:
				logger.Error("Request failed", append(fields, "error", err.Error())...)
			case !resp.Success:
				if resp.Error != nil {
					fields = append(fields, "error_code", resp.Error.Code, "error_msg", resp.Error.Message)
				}
				logger.Info("Request completed with failure", fields...)
			default:
				logger.Info("Request completed successfully", fields...)
			}

			return resp, err
		}
	}
}
