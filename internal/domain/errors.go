package domain

import "errors"

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrProofNotFound       = errors.New("proof not found")
	ErrGiftCodeNotFound    = errors.New("gift code not found")

	ErrTaskFull             = errors.New("task has no free slots")
	ErrAlreadyReserved      = errors.New("active reservation already exists for this task")
	ErrReservationNotActive = errors.New("reservation is not active")
	ErrAlreadyResolved      = errors.New("proof already resolved")
	ErrNotOwner             = errors.New("not the owner")
	ErrNotAuthorized        = errors.New("reviewer not authorized")

	ErrTaskBanned        = errors.New("banned from this task")
	ErrSelfInvite        = errors.New("cannot invite yourself")
	ErrAlreadyInvited    = errors.New("user already invited")
	ErrAlreadyJoined     = errors.New("user already joined")
	ErrDailyLimitReached = errors.New("daily draw limit reached")
	ErrPriceOutOfBounds  = errors.New("unit price outside allowed range")
	ErrInvalidLink       = errors.New("link not valid for task type")
	ErrMaxPinsReached    = errors.New("pinned task limit reached")

	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrNoTickets         = errors.New("no draw tickets available")
	ErrVaultClosed       = errors.New("prize vault is closed")
	ErrGiftCodeUsed      = errors.New("gift code already used by this account")
	ErrGiftCodeExhausted = errors.New("gift code fully used")

	ErrCorruptSnapshot = errors.New("persisted snapshot is corrupt")
)
