package domain

import "time"

// DefaultProjectColor is used when a project is created without a color.
const DefaultProjectColor = "#0891b2"

type Project struct {
	Id          int
	Name        string
	Description string

	// Color is a "#"-prefixed 6-hex-digit string.
	Color string

	OwnerId   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectPatch is a partial change of a Project. Nil fields are left as they are.
type ProjectPatch struct {
	Name        *string
	Description *string
	Color       *string
}
