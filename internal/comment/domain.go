package comment

import "time"

// Comment is a classroom discussion entry on a course.
type Comment struct {
	ID         int64
	CourseID   string
	AuthorID   int64
	AuthorName string
	Body       string
	CreatedAt  time.Time
}
