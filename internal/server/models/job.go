package models

import "time"

// Job statuses.
const (
	JobStatusPending = "pending"
	JobStatusDead    = "dead"
)

// Job is a queued message as stored in the jobs table. Attempts counts
// deliveries including the current one.
type Job struct {
	ID        int64
	Queue     string
	Payload   []byte
	Attempts  int
	Status    string
	LastError string
	CreatedAt time.Time
}

// ThumbnailTask asks the worker to derive renditions for an image.
type ThumbnailTask struct {
	UserID int64 `json:"userId"`
	FileID int64 `json:"fileId"`
}

// WelcomeTask greets a freshly registered user.
type WelcomeTask struct {
	UserID int64 `json:"userId"`
}
