package database

import (
	"context"
	"strconv"

	"cloud.google.com/go/firestore"

	storage "github.com/stridecoach/server/pkg/storage/firestore"
	"github.com/stridecoach/server/pkg/types"
)

// FirestoreAdapter provides database operations using Firestore
// It wraps our typed storage client
type FirestoreAdapter struct {
	Client  *firestore.Client
	storage *storage.Client // internal typed wrapper
}

func NewFirestoreAdapter(client *firestore.Client, athleteCollection, workoutCollection string) *FirestoreAdapter {
	return &FirestoreAdapter{
		Client:  client,
		storage: storage.NewClient(client, athleteCollection, workoutCollection),
	}
}

func (a *FirestoreAdapter) GetAthlete(ctx context.Context, athleteID int64) (*types.AthleteCredential, error) {
	return a.storage.Athletes().Doc(athleteDocID(athleteID)).Get(ctx)
}

// SetAthlete fully replaces the credential document.
func (a *FirestoreAdapter) SetAthlete(ctx context.Context, cred *types.AthleteCredential) error {
	return a.storage.Athletes().Doc(athleteDocID(cred.AthleteID)).Set(ctx, cred)
}

// UpdateAthleteTokens overwrites only the token fields, leaving the identity
// fields from the original authorization untouched.
func (a *FirestoreAdapter) UpdateAthleteTokens(ctx context.Context, athleteID int64, accessToken, refreshToken string, expiresAt int64) error {
	return a.storage.Athletes().Doc(athleteDocID(athleteID)).Update(ctx, map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_at":    expiresAt,
	})
}

func (a *FirestoreAdapter) SetWorkout(ctx context.Context, record *types.WorkoutRecord) error {
	return a.storage.Workouts().Doc(strconv.FormatInt(record.ActivityID, 10)).Set(ctx, record)
}

func (a *FirestoreAdapter) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	return a.storage.Executions().Doc(record.ExecutionID).Set(ctx, record)
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	return a.storage.Executions().Doc(id).Update(ctx, data)
}

func athleteDocID(athleteID int64) string {
	return strconv.FormatInt(athleteID, 10)
}
