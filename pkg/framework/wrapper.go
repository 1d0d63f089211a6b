package framework

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/stridecoach/server/pkg/bootstrap"
	"github.com/stridecoach/server/pkg/execution"
	"github.com/stridecoach/server/pkg/infrastructure/sentry"
)

// FrameworkContext contains dependencies injected by the framework
type FrameworkContext struct {
	Service     *bootstrap.Service
	Logger      *slog.Logger
	ExecutionID string
}

// Response is what a handler produces on success. Exactly one of JSON or HTML
// should be set; JSON wins when both are.
type Response struct {
	StatusCode int
	JSON       interface{}
	HTML       string
}

// HandlerFunc is the signature for an HTTP cloud function handler
type HandlerFunc func(ctx context.Context, r *http.Request, fwCtx *FrameworkContext) (*Response, error)

// ErrorResponse is the JSON body written for handler failures
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WrapHTTP wraps a handler with execution logging, error translation and
// Sentry capture. Bookkeeping failures never fail the request.
func WrapHTTP(serviceName string, svc *bootstrap.Service, handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		opts := bootstrap.GetSlogHandlerOptions(bootstrap.LogLevelFromEnv())
		logger := slog.New(slog.NewJSONHandler(os.Stdout, opts)).With("service", serviceName)

		execID, err := execution.LogStart(ctx, svc.DB, serviceName, execution.ExecutionOptions{
			TriggerType: "http",
		})
		if err != nil {
			logger.Error("Failed to log execution start", "error", err)
			// Continue anyway - don't fail the function just because logging failed
		}

		logger = logger.With("execution_id", execID)
		logger.Info("Function started", "method", r.Method, "path", r.URL.Path)

		fwCtx := &FrameworkContext{
			Service:     svc,
			Logger:      logger,
			ExecutionID: execID,
		}

		resp, handlerErr := handler(ctx, r, fwCtx)

		if handlerErr != nil {
			logger.Error("Function failed", "error", handlerErr)
			sentry.CaptureException(handlerErr, map[string]interface{}{
				"service":      serviceName,
				"execution_id": execID,
			}, logger)
			if logErr := execution.LogFailure(ctx, svc.DB, execID, handlerErr, nil); logErr != nil {
				logger.Warn("Failed to log execution failure", "error", logErr)
			}
			writeError(w, handlerErr)
			return
		}

		logger.Info("Function completed successfully")
		if logErr := execution.LogSuccess(ctx, svc.DB, execID, resp.JSON); logErr != nil {
			logger.Warn("Failed to log execution success", "error", logErr)
		}

		writeResponse(w, resp)
	}
}

func writeResponse(w http.ResponseWriter, resp *Response) {
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	if resp.JSON != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp.JSON)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(resp.HTML))
}

func writeError(w http.ResponseWriter, err error) {
	body := ErrorResponse{Error: "Internal server error"}

	var fwErr *Error
	if errors.As(err, &fwErr) {
		body = ErrorResponse{Error: fwErr.Message, Code: fwErr.Code}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(err))
	json.NewEncoder(w).Encode(body)
}
