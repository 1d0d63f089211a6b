package firestore

import (
	"time"

	"github.com/stridecoach/server/pkg/types"
)

// Helper to safely get string from map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Helper to safely get int64 from map (Firestore numbers come back as int64
// or float64 depending on how they were written)
func getInt64(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Helper to safely get float64 from map
func getFloat64(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

// Helper to safely get time from map (handles time.Time from Firestore)
func getTime(m map[string]interface{}, key string) time.Time {
	if v, ok := m[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// --- AthleteCredential Converters ---

func AthleteToFirestore(c *types.AthleteCredential) map[string]interface{} {
	return map[string]interface{}{
		"athlete_id":      c.AthleteID,
		"access_token":    c.AccessToken,
		"refresh_token":   c.RefreshToken,
		"expires_at":      c.ExpiresAt,
		"firstname":       c.FirstName,
		"lastname":        c.LastName,
		"profile_picture": c.ProfilePicture,
		"last_updated":    c.LastUpdated,
	}
}

func FirestoreToAthlete(m map[string]interface{}) *types.AthleteCredential {
	return &types.AthleteCredential{
		AthleteID:      getInt64(m, "athlete_id"),
		AccessToken:    getString(m, "access_token"),
		RefreshToken:   getString(m, "refresh_token"),
		ExpiresAt:      getInt64(m, "expires_at"),
		FirstName:      getString(m, "firstname"),
		LastName:       getString(m, "lastname"),
		ProfilePicture: getString(m, "profile_picture"),
		LastUpdated:    getInt64(m, "last_updated"),
	}
}

// --- WorkoutRecord Converters ---

func WorkoutToFirestore(w *types.WorkoutRecord) map[string]interface{} {
	return map[string]interface{}{
		"activity_id":     w.ActivityID,
		"athlete_id":      w.AthleteID,
		"type":            w.Type,
		"distance_km":     w.DistanceKm,
		"moving_time_min": w.MovingTimeMin,
		"avg_pace_min_km": w.AvgPaceMinKm,
		"avg_hr":          w.AvgHeartRate,
		"ai_insights":     w.Insights,
		"activity_date":   w.ActivityDate,
		"event_time":      w.EventTime,
	}
}

func FirestoreToWorkout(m map[string]interface{}) *types.WorkoutRecord {
	return &types.WorkoutRecord{
		ActivityID:    getInt64(m, "activity_id"),
		AthleteID:     getInt64(m, "athlete_id"),
		Type:          getString(m, "type"),
		DistanceKm:    getFloat64(m, "distance_km"),
		MovingTimeMin: getFloat64(m, "moving_time_min"),
		AvgPaceMinKm:  getFloat64(m, "avg_pace_min_km"),
		AvgHeartRate:  getString(m, "avg_hr"),
		Insights:      getString(m, "ai_insights"),
		ActivityDate:  getString(m, "activity_date"),
		EventTime:     getInt64(m, "event_time"),
	}
}

// --- ExecutionRecord Converters ---

func ExecutionToFirestore(e *types.ExecutionRecord) map[string]interface{} {
	m := map[string]interface{}{
		"execution_id": e.ExecutionID,
		"service":      e.Service,
		"status":       e.Status,
		"trigger_type": e.TriggerType,
		"started_at":   e.StartedAt,
	}
	if e.UserID != "" {
		m["user_id"] = e.UserID
	}
	if !e.FinishedAt.IsZero() {
		m["finished_at"] = e.FinishedAt
	}
	if e.Error != "" {
		m["error"] = e.Error
	}
	if e.OutputsJSON != "" {
		m["outputs_json"] = e.OutputsJSON
	}
	return m
}

func FirestoreToExecution(m map[string]interface{}) *types.ExecutionRecord {
	return &types.ExecutionRecord{
		ExecutionID: getString(m, "execution_id"),
		Service:     getString(m, "service"),
		Status:      getString(m, "status"),
		TriggerType: getString(m, "trigger_type"),
		UserID:      getString(m, "user_id"),
		StartedAt:   getTime(m, "started_at"),
		FinishedAt:  getTime(m, "finished_at"),
		Error:       getString(m, "error"),
		OutputsJSON: getString(m, "outputs_json"),
	}
}
