// Package execution records a per-invocation audit row in Firestore.
// All writes are best-effort from the caller's point of view: a handler is
// never failed because its bookkeeping could not be written.
package execution

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	shared "github.com/stridecoach/server/pkg"
	"github.com/stridecoach/server/pkg/types"
)

// ExecutionOptions carries optional metadata for an execution row
type ExecutionOptions struct {
	UserID      string
	TriggerType string
}

// LogStart writes the STARTED row and returns the new execution id.
// The id is returned even when the write fails so callers can keep logging
// with it.
func LogStart(ctx context.Context, db shared.Database, serviceName string, opts ExecutionOptions) (string, error) {
	execID := uuid.NewString()
	record := &types.ExecutionRecord{
		ExecutionID: execID,
		Service:     serviceName,
		Status:      types.StatusStarted,
		TriggerType: opts.TriggerType,
		UserID:      opts.UserID,
		StartedAt:   time.Now(),
	}
	return execID, db.SetExecution(ctx, record)
}

// LogSuccess marks the execution finished with outputs.
func LogSuccess(ctx context.Context, db shared.Database, execID string, outputs interface{}) error {
	return db.UpdateExecution(ctx, execID, map[string]interface{}{
		"status":       types.StatusSuccess,
		"finished_at":  time.Now(),
		"outputs_json": marshalOutputs(outputs),
	})
}

// LogFailure marks the execution failed, preserving any partial outputs.
func LogFailure(ctx context.Context, db shared.Database, execID string, err error, outputs interface{}) error {
	return db.UpdateExecution(ctx, execID, map[string]interface{}{
		"status":       types.StatusFailed,
		"finished_at":  time.Now(),
		"error":        err.Error(),
		"outputs_json": marshalOutputs(outputs),
	})
}

func marshalOutputs(outputs interface{}) string {
	if outputs == nil {
		return ""
	}
	b, err := json.Marshal(outputs)
	if err != nil {
		return ""
	}
	return string(b)
}
