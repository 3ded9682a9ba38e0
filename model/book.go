// model/book.go
package model

import "time"

type BookStatus string

const (
	StatusAvailable BookStatus = "Available"
	StatusIssued    BookStatus = "Issued"
	StatusReserved  BookStatus = "Reserved"
)

// DeriveStatus is the single rule mapping the open-loan / active-reservation
// facts to a book status. Status is never stored; every read computes it here.
func DeriveStatus(hasOpenLoan, hasActiveReservation bool) BookStatus {
	switch {
	case hasOpenLoan:
		return StatusIssued
	case hasActiveReservation:
		return StatusReserved
	default:
		return StatusAvailable
	}
}

type Condition string

const (
	ConditionVerified Condition = "Verified"
	ConditionDamaged  Condition = "Damaged"
	ConditionLost     Condition = "Lost"
)

type Book struct {
	ID           int64      `json:"id"`
	AccessionKey string     `json:"accession_key"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Category     string     `json:"category"`
	Status       BookStatus `json:"status"`
	Verified     bool       `json:"verified"`
	Condition    *Condition `json:"condition,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateBookReq represents catalog entry payload
// swagger:model CreateBookReq
type CreateBookReq struct {
	Accession string `json:"accession" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	Category  string `json:"category"`
}
