package domain

import "time"

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationExpired   ReservationStatus = "expired"
)

// Reservation is a time-boxed exclusive claim on one execution slot of a
// task. At most one active reservation may exist per (user, task) pair.
type Reservation struct {
	ID         string
	UserID     int64
	TaskID     string
	ReservedAt time.Time
	ExpiresAt  time.Time
	Status     ReservationStatus
}
