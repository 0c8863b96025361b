package course

import "time"

// Course is a marketplace course authored by an educator.
type Course struct {
	ID          string
	EducatorID  int64
	Title       string
	Category    string
	Description string
	PriceCents  int64
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input carries the educator-supplied fields for create/update.
type Input struct {
	Title       string
	Category    string
	Description string
	PriceCents  int64
	Published   bool
}
