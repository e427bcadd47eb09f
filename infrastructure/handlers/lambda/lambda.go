// Package lambda runs the request pipeline on AWS Lambda behind API Gateway.
// The caller identity comes from the gateway authorizer headers; direct
// invocations carrying a Request envelope are accepted for testing.
package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"

	"accessaudit/domain/auth"
	"accessaudit/handler"
)

type Adapter struct {
	handler handler.Handler
}

func NewAdapter(h handler.Handler) *Adapter {
	return &Adapter{handler: h}
}

func (a *Adapter) Start() error {
	awslambda.Start(a.handleEvent)
	return nil
}

func (a *Adapter) handleEvent(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// API Gateway proxy event
	var proxyEvent events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &proxyEvent); err == nil && proxyEvent.HTTPMethod != "" {
		return a.handleProxyEvent(ctx, proxyEvent)
	}

	// Direct invocation with a Request envelope
	var req handler.Request
	if err := json.Unmarshal(event, &req); err == nil && req.Operation != "" {
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		if req.Timestamp.IsZero() {
			req.Timestamp = time.Now().UTC()
		}
		return a.handler.Handle(ctx, req)
	}

	return nil, fmt.Errorf("unsupported event type")
}

func (a *Adapter) handleProxyEvent(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req handler.Request
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return proxyResponse(400, handler.NewErrorResponse("VALIDATION_ERROR", "invalid JSON payload", false)), nil
	}

	if req.ID == "" {
		req.ID = event.RequestContext.RequestID
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}
	req.Caller = callerFromHeaders(event.Headers)

	resp, err := a.handler.Handle(ctx, req)
	if err != nil {
		a.handler.Logger().Error("Request processing failed", "request_id", req.ID, "error", err)
		return proxyResponse(500, handler.NewErrorResponse("INTERNAL_ERROR", "internal error", true)), nil
	}

	status := 200
	if !resp.Success && resp.Error != nil {
		status = statusFromCode(resp.Error.Code)
	}
	return proxyResponse(status, resp), nil
}

// callerFromHeaders reads the authorizer-verified identity. API Gateway
// lower-cases header names on HTTP APIs, so check both forms.
func callerFromHeaders(headers map[string]string) auth.Identity {
	get := func(name, lower string) string {
		if v, ok := headers[name]; ok {
			return v
		}
		return headers[lower]
	}
	return auth.Identity{
		ID:   get("X-Caller-Id", "x-caller-id"),
		Name: get("X-Caller-Name", "x-caller-name"),
		Role: auth.Role(get("X-Caller-Role", "x-caller-role")),
	}
}

func proxyResponse(status int, resp handler.Response) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(resp)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func statusFromCode(code string) int {
	switch code {
	case "UNAUTHORIZED":
		return 401
	case "FORBIDDEN":
		return 403
	case "VALIDATION_ERROR":
		return 400
	case "CONFLICT", "INVALID_TRANSITION":
		return 409
	case "NOT_FOUND":
		return 404
	default:
		return 500
	}
}
