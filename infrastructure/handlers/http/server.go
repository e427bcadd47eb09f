// Package http runs the request pipeline behind a plain HTTP server.
// Operations are invoked with POST /invoke; the caller identity arrives as
// gateway-verified headers, never from the request body.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"accessaudit/config"
	"accessaudit/domain/auth"
	"accessaudit/handler"
)

type Adapter struct {
	handler handler.Handler
	config  *config.HTTPConfig
	metrics http.Handler
	maxBody int64
	server  *http.Server
}

// NewAdapter creates the HTTP runtime. metricsHandler serves GET /metrics
// when non-nil (the Prometheus exposition handler).
func NewAdapter(h handler.Handler, cfg *config.Config, metricsHandler http.Handler) *Adapter {
	return &Adapter{
		handler: h,
		config:  &cfg.HTTP,
		metrics: metricsHandler,
		maxBody: cfg.Handler.MaxRequestSize,
	}
}

func (a *Adapter) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/invoke", a.handleRequest)
	mux.HandleFunc("/healthz", a.handleHealth)
	if a.metrics != nil {
		mux.Handle("/metrics", a.metrics)
	}

	a.server = &http.Server{
		Addr:         a.config.Addr,
		Handler:      mux,
		ReadTimeout:  a.config.Timeout,
		WriteTimeout: a.config.Timeout,
	}

	a.handler.Logger().Info("Starting HTTP adapter", "address", a.config.Addr)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (a *Adapter) Stop(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	a.handler.Logger().Info("Shutting down HTTP server")
	return a.server.Shutdown(ctx)
}

func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *Adapter) handleRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.handleMethodNotAllowed(w, r)
		return
	}

	start := time.Now()
	a.handler.Metrics().IncrementCounter("http.requests", nil)
	defer func() {
		a.handler.Metrics().RecordHistogram("http.request_duration",
			float64(time.Since(start).Milliseconds()), nil)
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, a.maxBody))
	defer r.Body.Close()
	if err != nil {
		a.handleBadRequest(w, fmt.Errorf("failed to read request body: %w", err))
		return
	}

	var req handler.Request
	if err := json.Unmarshal(body, &req); err != nil {
		a.handleBadRequest(w, fmt.Errorf("invalid JSON payload: %w", err))
		return
	}
	a.enrichRequest(&req, r)

	resp, err := a.handler.Handle(r.Context(), req)
	if err != nil {
		a.handler.Logger().Error("Request processing failed", "request_id", req.ID, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(handler.NewErrorResponse("INTERNAL_ERROR", "internal error", true))
		return
	}

	a.sendResponse(w, resp)
}

// enrichRequest fills defaults and replaces any body-supplied caller with the
// gateway-verified identity headers.
func (a *Adapter) enrichRequest(req *handler.Request, r *http.Request) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}
	req.Caller = auth.Identity{
		ID:   r.Header.Get("X-Caller-Id"),
		Name: r.Header.Get("X-Caller-Name"),
		Role: auth.Role(r.Header.Get("X-Caller-Role")),
	}
}

func (a *Adapter) sendResponse(w http.ResponseWriter, resp handler.Response) {
	w.Header().Set("Content-Type", "application/json")

	statusCode := http.StatusOK
	if !resp.Success && resp.Error != nil {
		statusCode = statusFromCode(resp.Error.Code)
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.handler.Logger().Error("Failed to encode response", "error", err)
	}
}

func statusFromCode(code string) int {
	switch code {
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "FORBIDDEN":
		return http.StatusForbidden
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "CONFLICT", "INVALID_TRANSITION":
		return http.StatusConflict
	case "NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (a *Adapter) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	a.handler.Metrics().IncrementCounter("http.method_not_allowed", nil)
	w.Header().Set("Allow", "POST")
	http.Error(w, "Method not allowed. Only POST is supported.", http.StatusMethodNotAllowed)
}

func (a *Adapter) handleBadRequest(w http.ResponseWriter, err error) {
	a.handler.Logger().Error("Bad request", "error", err)
	a.handler.Metrics().IncrementCounter("http.bad_request", nil)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(handler.NewErrorResponse("VALIDATION_ERROR", err.Error(), false))
}
