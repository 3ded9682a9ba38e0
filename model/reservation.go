// model/reservation.go
package model

import "time"

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "Active"
	ReservationFulfilled ReservationStatus = "Fulfilled"
	ReservationCancelled ReservationStatus = "Cancelled"
)

type Reservation struct {
	ID         int64             `json:"id"`
	BookID     int64             `json:"book_id"`
	StudentID  int64             `json:"student_id"`
	Status     ReservationStatus `json:"status"`
	ReservedAt time.Time         `json:"reserved_at"`
}

// ReserveReq represents reservation payload
// swagger:model ReserveReq
type ReserveReq struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	BookID    int64 `json:"book_id" validate:"required,gt=0"`
}
