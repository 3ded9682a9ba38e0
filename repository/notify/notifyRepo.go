package notifyrepo

import "context"

const (
	KindReservationReady = "reservation_ready"
	KindLoanReminder     = "loan_reminder"
)

type Notice struct {
	StudentID int64  `json:"student_id"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}

// Repo is the fire-and-forget notification capability. Delivery failure is
// the caller's problem only to the extent of logging it; it never rolls back
// a circulation transaction.
type Repo interface {
	Send(ctx context.Context, n Notice) error
}
