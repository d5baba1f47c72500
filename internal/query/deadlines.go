package query

import (
	"math"
	"time"

	"github.com/sadopc/otis/internal/store"
)

// UrgentDays is the horizon under which a deadline is flagged as urgent.
const UrgentDays = 7

// DaysLeft counts the days from now until deadline, rounding partial days
// up. Zero or less means the deadline has passed.
func DaysLeft(deadline store.Date, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// Urgent reports whether daysLeft is within the urgency horizon. Overdue
// deadlines are urgent too.
func Urgent(daysLeft int) bool {
	return daysLeft <= UrgentDays
}
