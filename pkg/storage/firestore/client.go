package firestore

import (
	"cloud.google.com/go/firestore"

	shared "github.com/stridecoach/server/pkg"
	"github.com/stridecoach/server/pkg/types"
)

// Client is a typed wrapper over the raw Firestore client. The athlete and
// workout collection names come from configuration because they identify the
// deployment's store locations; executions are a fixed internal collection.
type Client struct {
	fs                *firestore.Client
	athleteCollection string
	workoutCollection string
}

func NewClient(client *firestore.Client, athleteCollection, workoutCollection string) *Client {
	return &Client{
		fs:                client,
		athleteCollection: athleteCollection,
		workoutCollection: workoutCollection,
	}
}

func (c *Client) Close() error {
	return c.fs.Close()
}

// Athletes holds one credential document per athlete id.
func (c *Client) Athletes() *Collection[types.AthleteCredential] {
	return &Collection[types.AthleteCredential]{
		Ref:           c.fs.Collection(c.athleteCollection),
		ToFirestore:   AthleteToFirestore,
		FromFirestore: FirestoreToAthlete,
	}
}

// Workouts holds one derived record per activity id.
func (c *Client) Workouts() *Collection[types.WorkoutRecord] {
	return &Collection[types.WorkoutRecord]{
		Ref:           c.fs.Collection(c.workoutCollection),
		ToFirestore:   WorkoutToFirestore,
		FromFirestore: FirestoreToWorkout,
	}
}

func (c *Client) Executions() *Collection[types.ExecutionRecord] {
	return &Collection[types.ExecutionRecord]{
		Ref:           c.fs.Collection(shared.CollectionExecutions),
		ToFirestore:   ExecutionToFirestore,
		FromFirestore: FirestoreToExecution,
	}
}
