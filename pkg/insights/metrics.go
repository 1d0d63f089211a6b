package insights

import (
	"fmt"
	"strings"

	"github.com/stridecoach/server/pkg/integrations/strava"
	"github.com/stridecoach/server/pkg/types"
)

// Metrics are the derived per-activity figures fed into the prompt and, after
// rounding, into the workout record.
type Metrics struct {
	Type          string
	DistanceKm    float64
	MovingTimeMin float64
	AvgPaceMinKm  float64
	AvgHeartRate  string
}

// DeriveMetrics converts raw activity figures to the summary units.
// Pace is defined as 0 for zero-distance activities; that is a valid value,
// not an error.
func DeriveMetrics(activity *strava.Activity) Metrics {
	activityType := activity.Type
	if activityType == "" {
		activityType = "Workout"
	}

	distanceKm := activity.Distance / 1000
	movingTimeMin := float64(activity.MovingTime) / 60

	pace := 0.0
	if distanceKm > 0 {
		pace = movingTimeMin / distanceKm
	}

	heartRate := types.HeartRateUnknown
	if activity.AverageHeartRate != nil {
		heartRate = fmt.Sprintf("%.1f", *activity.AverageHeartRate)
	}

	return Metrics{
		Type:          activityType,
		DistanceKm:    distanceKm,
		MovingTimeMin: movingTimeMin,
		AvgPaceMinKm:  pace,
		AvgHeartRate:  heartRate,
	}
}

// BuildPrompt renders the coach prompt for a workout.
func BuildPrompt(m Metrics) string {
	var b strings.Builder
	b.WriteString("You are a friendly and encouraging running coach. ")
	b.WriteString("Analyze the following workout data and provide 2-3 personalized, insightful, and motivational comments. ")
	b.WriteString("Keep the tone positive. ")
	b.WriteString("Format the output as a short summary paragraph followed by a markdown bulleted list.\n\n")
	b.WriteString("Here is the workout data:\n")
	fmt.Fprintf(&b, "- Type: %s\n", m.Type)
	fmt.Fprintf(&b, "- Distance: %.2f km\n", m.DistanceKm)
	fmt.Fprintf(&b, "- Moving Time: %.1f minutes\n", m.MovingTimeMin)
	fmt.Fprintf(&b, "- Average Pace: %.2f min/km\n", m.AvgPaceMinKm)
	fmt.Fprintf(&b, "- Average Heart Rate: %s bpm", m.AvgHeartRate)
	return b.String()
}
