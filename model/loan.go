// model/loan.go
package model

import "time"

type LoanStatus string

const (
	LoanIssued   LoanStatus = "Issued"
	LoanReturned LoanStatus = "Returned"
)

type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	StudentID  int64      `json:"student_id"`
	Status     LoanStatus `json:"status"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Fine       int64      `json:"fine"`
}

// FineAt computes the overdue fine at the given instant in the smallest
// currency unit. Zero up to and including the due date, then finePerDay per
// started day past it.
func (l Loan) FineAt(now time.Time, finePerDay int64) int64 {
	late := now.Sub(l.DueDate)
	if late <= 0 || finePerDay <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	days := int64((late + day - 1) / day)
	return days * finePerDay
}

// IssueReq represents issuance payload
// swagger:model IssueReq
type IssueReq struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	BookID    int64  `json:"book_id" validate:"required,gt=0"`
	DueDate   string `json:"due_date,omitempty"` // RFC3339, optional
}
