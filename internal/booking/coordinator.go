package booking

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/events"
	"github.com/robertarktes/travel-reservations/internal/observability"
)

// Catalog is the slice of the package store the coordinator needs. All
// availability writes go through it as atomic deltas; the coordinator
// never computes a new counter value in memory.
type Catalog interface {
	GetPackage(ctx context.Context, id uuid.UUID) (*domain.Package, error)
	DecrementIfAvailable(ctx context.Context, id uuid.UUID) (bool, error)
	AdjustAvailability(ctx context.Context, id uuid.UUID, delta int) error
}

type Ledger interface {
	InsertBooking(ctx context.Context, b domain.Booking) error
	GetBookingForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Booking, error)
	MarkCancelled(ctx context.Context, id, userID uuid.UUID) (*domain.Booking, bool, error)
}

type Users interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Publisher interface {
	Publish(name string, payload interface{})
}

// RestockPolicy tops the counter up before a reservation when availability
// has dropped to the threshold. Auto-creating inventory is unusual for a
// real booking business; it is kept as an explicit, configurable policy
// (Amount = 0 disables it) so product owners can decide its fate.
type RestockPolicy struct {
	Threshold int
	Amount    int
}

func DefaultRestockPolicy() RestockPolicy {
	return RestockPolicy{Threshold: 3, Amount: 3}
}

// EventPayload is what reaches subscribers for both booking.created and
// booking.cancelled.
type EventPayload struct {
	BookingID uuid.UUID            `json:"booking_id"`
	UserID    uuid.UUID            `json:"user_id"`
	PackageID uuid.UUID            `json:"package_id"`
	Status    domain.BookingStatus `json:"status"`
	Date      time.Time            `json:"date"`
}

// Coordinator gates reservations against real-time availability and keeps
// the counter consistent with the set of non-cancelled bookings.
type Coordinator struct {
	catalog Catalog
	ledger  Ledger
	users   Users
	bus     Publisher
	policy  RestockPolicy
	logger  observability.Logger
}

func NewCoordinator(catalog Catalog, ledger Ledger, users Users, bus Publisher, policy RestockPolicy, logger observability.Logger) *Coordinator {
	return &Coordinator{
		catalog: catalog,
		ledger:  ledger,
		users:   users,
		bus:     bus,
		policy:  policy,
		logger:  logger,
	}
}

// Reserve validates the references, applies the restock policy, then takes
// one availability unit with a conditional decrement and records the
// CONFIRMED booking. If the ledger insert fails after the decrement, the
// unit is credited back so a reported failure never leaves availability
// decremented without a booking.
func (c *Coordinator) Reserve(ctx context.Context, packageID, userID uuid.UUID, date time.Time) (*domain.Booking, error) {
	if date.IsZero() {
		return nil, errors.Wrap(domain.ErrInvalidInput, "reservation date is required")
	}
	if _, err := c.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	pkg, err := c.catalog.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	if c.policy.Amount > 0 && pkg.Availability <= c.policy.Threshold {
		if err := c.catalog.AdjustAvailability(ctx, packageID, c.policy.Amount); err != nil {
			return nil, err
		}
		observability.Restocks.Inc()
		c.logger.WithField("package_id", packageID.String()).
			WithField("amount", c.policy.Amount).
			Warn("low stock, auto-restocked package")
	}

	ok, err := c.catalog.DecrementIfAvailable(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.ReservationConflicts.Inc()
		return nil, errors.Wrap(domain.ErrConflict, "package is not available")
	}

	b := domain.NewBooking(packageID, userID, date)
	if err := c.ledger.InsertBooking(ctx, b); err != nil {
		// Give the unit back; the decrement must not outlive a failed
		// booking write.
		if compErr := c.catalog.AdjustAvailability(ctx, packageID, 1); compErr != nil {
			c.logger.WithField("package_id", packageID.String()).
				Error("failed to compensate availability decrement", compErr)
		}
		return nil, err
	}

	observability.BookingsCreated.Inc()
	c.bus.Publish(events.BookingCreated, EventPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		PackageID: b.PackageID,
		Status:    b.Status,
		Date:      b.Date,
	})
	return &b, nil
}

// Cancel credits one unit back to the package and flips the caller's
// booking to CANCELLED. Cancelling an already-CANCELLED booking is a no-op:
// the stored booking is returned unchanged and availability is not
// re-credited, even when two cancels race.
//
// The credit lands before the status flip, mirroring Reserve in the
// opposite order: a failed credit leaves the booking cancellable so a
// retry can complete, and a flip that matched nothing (another cancel won
// the race) takes the credit back. A reported failure never leaves the
// booking CANCELLED with the unit still taken.
func (c *Coordinator) Cancel(ctx context.Context, bookingID, userID uuid.UUID) (*domain.Booking, error) {
	existing, err := c.ledger.GetBookingForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if !existing.Cancellable() {
		return existing, nil
	}

	credited := true
	if err := c.catalog.AdjustAvailability(ctx, existing.PackageID, 1); err != nil {
		// The package may have been deleted since the booking was made;
		// the cancellation itself still stands.
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		credited = false
	}

	b, flipped, err := c.ledger.MarkCancelled(ctx, bookingID, userID)
	if err != nil || !flipped {
		if credited {
			if compErr := c.catalog.AdjustAvailability(ctx, existing.PackageID, -1); compErr != nil {
				c.logger.WithField("package_id", existing.PackageID.String()).
					Error("failed to compensate availability credit", compErr)
			}
		}
		if err != nil {
			return nil, err
		}
		// Another cancel flipped the booking between the read and the
		// update; return the stored state.
		current, gerr := c.ledger.GetBookingForUser(ctx, bookingID, userID)
		if gerr != nil {
			return nil, gerr
		}
		return current, nil
	}

	observability.BookingsCancelled.Inc()
	c.bus.Publish(events.BookingCancelled, EventPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		PackageID: b.PackageID,
		Status:    b.Status,
		Date:      b.Date,
	})
	return b, nil
}
