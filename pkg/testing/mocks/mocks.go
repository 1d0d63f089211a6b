package mocks

import (
	"context"
	"fmt"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/stridecoach/server/pkg/types"
)

// --- Mock Database ---
type MockDatabase struct {
	GetAthleteFunc          func(ctx context.Context, athleteID int64) (*types.AthleteCredential, error)
	SetAthleteFunc          func(ctx context.Context, cred *types.AthleteCredential) error
	UpdateAthleteTokensFunc func(ctx context.Context, athleteID int64, accessToken, refreshToken string, expiresAt int64) error
	SetWorkoutFunc          func(ctx context.Context, record *types.WorkoutRecord) error
	SetExecutionFunc        func(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecutionFunc     func(ctx context.Context, id string, data map[string]interface{}) error
}

func (m *MockDatabase) GetAthlete(ctx context.Context, athleteID int64) (*types.AthleteCredential, error) {
	if m.GetAthleteFunc != nil {
		return m.GetAthleteFunc(ctx, athleteID)
	}
	return nil, fmt.Errorf("athlete not found")
}
func (m *MockDatabase) SetAthlete(ctx context.Context, cred *types.AthleteCredential) error {
	if m.SetAthleteFunc != nil {
		return m.SetAthleteFunc(ctx, cred)
	}
	return nil
}
func (m *MockDatabase) UpdateAthleteTokens(ctx context.Context, athleteID int64, accessToken, refreshToken string, expiresAt int64) error {
	if m.UpdateAthleteTokensFunc != nil {
		return m.UpdateAthleteTokensFunc(ctx, athleteID, accessToken, refreshToken, expiresAt)
	}
	return nil
}
func (m *MockDatabase) SetWorkout(ctx context.Context, record *types.WorkoutRecord) error {
	if m.SetWorkoutFunc != nil {
		return m.SetWorkoutFunc(ctx, record)
	}
	return nil
}
func (m *MockDatabase) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	if m.SetExecutionFunc != nil {
		return m.SetExecutionFunc(ctx, record)
	}
	return nil
}
func (m *MockDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateExecutionFunc != nil {
		return m.UpdateExecutionFunc(ctx, id, data)
	}
	return nil
}

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "msg-id", nil
}

// --- Mock Storage ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
