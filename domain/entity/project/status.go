package project

type Status string

const (
	StatusPending   Status = "pending"
	StatusOpen      Status = "open"
	StatusInReview  Status = "in_review"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOpen, StatusInReview, StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// AutoOpenNote is appended to the status history when the first tester
// assignment flips a pending project to open.
const AutoOpenNote = "auto-opened on first assignment"
