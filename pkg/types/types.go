package types

import (
	"math"
	"time"
)

// AspectCreate is the only webhook aspect type this system processes.
// Updates and deletes are acknowledged and discarded.
const AspectCreate = "create"

// HeartRateUnknown is the sentinel stored when an activity carries no
// heart rate data.
const HeartRateUnknown = "unknown"

// AthleteCredential is the stored OAuth state for a connected athlete.
// There is at most one record per athlete id; the authorization callback
// fully overwrites it and the refresh path updates the token fields in place.
type AthleteCredential struct {
	AthleteID      int64
	AccessToken    string
	RefreshToken   string
	ExpiresAt      int64 // epoch seconds of token expiry
	FirstName      string
	LastName       string
	ProfilePicture string
	LastUpdated    int64 // epoch seconds of last write
}

// Expired reports whether the access token has passed its expiry.
func (c *AthleteCredential) Expired(now time.Time) bool {
	return c.ExpiresAt < now.Unix()
}

// WorkoutRecord is the derived record persisted once per processed
// activity-creation event, keyed by activity id. Numeric fields are rounded
// before persistence so the store never sees floating-point representation
// drift.
type WorkoutRecord struct {
	ActivityID    int64   `json:"activity_id"`
	AthleteID     int64   `json:"athlete_id"`
	Type          string  `json:"type"`
	DistanceKm    float64 `json:"distance_km"`     // 2dp
	MovingTimeMin float64 `json:"moving_time_min"` // 1dp
	AvgPaceMinKm  float64 `json:"avg_pace_min_km"` // 2dp
	AvgHeartRate  string  `json:"avg_hr"`          // textual, HeartRateUnknown when absent
	Insights      string  `json:"ai_insights"`
	ActivityDate  string  `json:"activity_date"`
	EventTime     int64   `json:"event_time"` // epoch seconds of ingestion
}

// WebhookEvent is the transient Strava push notification body.
type WebhookEvent struct {
	AspectType     string            `json:"aspect_type"`
	ObjectType     string            `json:"object_type"`
	ObjectID       int64             `json:"object_id"`
	OwnerID        int64             `json:"owner_id"`
	SubscriptionID int64             `json:"subscription_id"`
	EventTime      int64             `json:"event_time"`
	Updates        map[string]string `json:"updates,omitempty"`
}

// ExecutionRecord is the per-invocation audit row written by the framework.
type ExecutionRecord struct {
	ExecutionID string
	Service     string
	Status      string
	TriggerType string
	UserID      string
	StartedAt   time.Time
	FinishedAt  time.Time
	Error       string
	OutputsJSON string
}

// Execution statuses.
const (
	StatusStarted = "STARTED"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Round2 rounds to 2 decimal places (distance, pace).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place (moving time).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
