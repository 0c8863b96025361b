package enrollment

import "time"

// Purchase is the entitlement record created when a student buys a course.
// Its existence is what the entitlement checker inspects on later requests.
type Purchase struct {
	ID         int64
	UserID     int64
	CourseID   string
	PriceCents int64
	CreatedAt  time.Time
}
