package domain

import (
	"time"

	"github.com/google/uuid"
)

func NewBooking(packageID, userID uuid.UUID, date time.Time) Booking {
	return Booking{
		ID:        uuid.New(),
		UserID:    userID,
		PackageID: packageID,
		Date:      date,
		Status:    StatusConfirmed,
		CreatedAt: time.Now().UTC(),
	}
}

// Cancellable reports whether the booking may still transition to
// CANCELLED. CANCELLED is terminal.
func (b Booking) Cancellable() bool {
	return b.Status != StatusCancelled
}
