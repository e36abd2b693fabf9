package domain

import "time"

type User struct {
	Id              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageUrl string
	IsAdmin         bool
	IsApproved      bool

	// Xp never decreases. See CompletionReward.
	Xp    int
	Level int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the resolved caller of a request.
type Identity struct {
	Id         string
	IsAdmin    bool
	IsApproved bool
}

// CompletionReward is the xp granted to the assignee when their task
// enters Done.
const CompletionReward = 10

// LevelFor derives a user's level from accumulated xp.
func LevelFor(xp int) int {
	return xp/100 + 1
}

// CompletesTask reports whether a status change is a transition into Done.
//
// It is an edge, not a state: a task already in Done does not complete
// again, and leaving Done never revokes the reward.
func CompletesTask(before TaskStatus, after TaskStatus) bool {
	return before != Done && after == Done
}
