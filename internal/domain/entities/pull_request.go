package entities

import "time"

// PullRequest is a proposed change set for one Update. Requirements hold a
// pointer to the pull request that carries their change; two requirements
// share a pull request when they point at the same instance.
type PullRequest struct {
	Number    int
	Title     string
	Branch    string
	URL       string
	CreatedAt time.Time
}
