package shared

const (
	ProjectID = "stridecoach-project" // Can be overridden by env var in main if needed

	TopicWorkoutProcessed = "topic-workout-processed"

	CollectionExecutions = "executions"
)
