package domain

import "fmt"

// Status is the review state of a submitted listing.
type Status string

const (
	StatusRequested Status = "requested"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusOnHold    Status = "onHold"
)

// Statuses lists the review queues in dashboard order.
var Statuses = []Status{StatusRequested, StatusAccepted, StatusRejected, StatusOnHold}

// ParseStatus validates a review status name.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (want one of %v)", s, Statuses)
}

// NeedsInstructions reports whether moving to this status requires reviewer notes.
func (s Status) NeedsInstructions() bool { return s == StatusOnHold }

// StatusChange is the body of an admin status update.
type StatusChange struct {
	Status       Status `json:"status"`
	Instructions string `json:"instructions"`
}

// ReviewQueues groups listings by review status.
type ReviewQueues map[Status][]Agent
