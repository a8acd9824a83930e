package model

// TaskStatus represents the status of a fetch task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but the engine has not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusFetching means the engine is extracting metadata or downloading
	TaskStatusFetching TaskStatus = "Fetching"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusFetching
}

// IsFinished returns true if the task is in a finished state (completed or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}
