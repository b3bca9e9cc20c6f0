package model

import "time"

// WatchedPR is a pull request on the persisted watch list.
type WatchedPR struct {
	ID           int64
	RepoFullName string
	Number       int
	AddedAt      time.Time
}
