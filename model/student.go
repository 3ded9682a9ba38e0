package model

import "time"

type Student struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// StudentInfo is the directory lookup shape: identity plus the live count of
// open loans.
type StudentInfo struct {
	Student
	ActiveLoans int64 `json:"active_loans"`
}
