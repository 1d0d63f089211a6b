package shared

import (
	"context"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/stridecoach/server/pkg/types"
)

// --- Persistence Interfaces ---

type Database interface {
	// Athlete credentials. SetAthlete fully replaces the record (last write
	// wins, no partial merge). UpdateAthleteTokens is the one field-level
	// variant, reserved for the refresh path.
	GetAthlete(ctx context.Context, athleteID int64) (*types.AthleteCredential, error)
	SetAthlete(ctx context.Context, cred *types.AthleteCredential) error
	UpdateAthleteTokens(ctx context.Context, athleteID int64, accessToken, refreshToken string, expiresAt int64) error

	// Derived workout records, keyed by activity id. Duplicate event
	// delivery overwrites the same document.
	SetWorkout(ctx context.Context, record *types.WorkoutRecord) error

	// Execution audit rows.
	SetExecution(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error
}

// --- Messaging Interfaces ---

type Publisher interface {
	PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error)
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
}
