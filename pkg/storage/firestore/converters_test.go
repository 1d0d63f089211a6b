package firestore

import (
	"testing"
	"time"

	"github.com/stridecoach/server/pkg/types"
)

func TestAthleteRoundTrip(t *testing.T) {
	cred := &types.AthleteCredential{
		AthleteID:      134815,
		AccessToken:    "access-abc",
		RefreshToken:   "refresh-def",
		ExpiresAt:      1756700000,
		FirstName:      "Jo",
		LastName:       "Runner",
		ProfilePicture: "https://example.com/jo.jpg",
		LastUpdated:    1756690000,
	}

	got := FirestoreToAthlete(AthleteToFirestore(cred))
	if *got != *cred {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, cred)
	}
}

func TestFirestoreToAthleteNumberCoercion(t *testing.T) {
	// Numbers written through a JSON path come back as float64.
	m := map[string]interface{}{
		"athlete_id": float64(134815),
		"expires_at": float64(1756700000),
	}

	got := FirestoreToAthlete(m)
	if got.AthleteID != 134815 {
		t.Errorf("AthleteID = %d", got.AthleteID)
	}
	if got.ExpiresAt != 1756700000 {
		t.Errorf("ExpiresAt = %d", got.ExpiresAt)
	}
	if got.AccessToken != "" {
		t.Errorf("AccessToken = %q, want empty for missing field", got.AccessToken)
	}
}

func TestWorkoutRoundTrip(t *testing.T) {
	w := &types.WorkoutRecord{
		ActivityID:    999,
		AthleteID:     134815,
		Type:          "Run",
		DistanceKm:    10.0,
		MovingTimeMin: 50.0,
		AvgPaceMinKm:  5.0,
		AvgHeartRate:  "152.3",
		Insights:      "Great pacing today.",
		ActivityDate:  "2026-08-30T07:15:00Z",
		EventTime:     1756538100,
	}

	got := FirestoreToWorkout(WorkoutToFirestore(w))
	if *got != *w {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, w)
	}
}

func TestExecutionToFirestoreOmitsEmptyFields(t *testing.T) {
	e := &types.ExecutionRecord{
		ExecutionID: "exec-1",
		Service:     "activity-webhook",
		Status:      types.StatusStarted,
		TriggerType: "http",
		StartedAt:   time.Now(),
	}

	m := ExecutionToFirestore(e)
	for _, key := range []string{"user_id", "finished_at", "error", "outputs_json"} {
		if _, ok := m[key]; ok {
			t.Errorf("expected %q to be omitted for zero value", key)
		}
	}
	if m["status"] != types.StatusStarted {
		t.Errorf("status = %v", m["status"])
	}
}
