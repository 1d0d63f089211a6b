package pubsub

import (
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// EventTypeWorkoutProcessed is emitted after an activity has been summarized
// and its description pushed back to Strava.
const EventTypeWorkoutProcessed = "com.stridecoach.workout.processed"

// NewCloudEvent creates a standardized CloudEvent v1.0
func NewCloudEvent(source, eventType string, data interface{}) (cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	e.SetSpecVersion("1.0")
	e.SetType(eventType)
	e.SetSource(source)

	if err := e.SetData(cloudevents.ApplicationJSON, data); err != nil {
		return e, err
	}

	return e, nil
}
