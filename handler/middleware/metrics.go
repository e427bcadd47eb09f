package middleware

import (
	"context"
	"time"

	"accessaudit/domain/observability"
	"accessaudit/handler"
)

func Metrics(metrics observability.Metrics) handler.Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx context.Context, req handler.Request) (handler.Response, error) {
			start := time.Now()

			metrics.IncrementCounter("handler.requests", map[string]string{
				"operation": req.Operation,
			})

			resp, err := next(ctx, req)

			tags := map[string]string{"operation": req.Operation}
			metrics.RecordHistogram("handler.duration", time.Since(start).Seconds(), tags)

			if err != nil || !resp.Success {
				if resp.Error != nil {
					tags["error_code"] = resp.Error.Code
				}
				metrics.IncrementCounter("handler.errors", tags)
			} else {
				metrics.IncrementCounter("handler.success", tags)
			}

			return resp, err
		}
	}
}
