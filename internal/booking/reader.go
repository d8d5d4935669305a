package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/observability"
)

type LedgerReads interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
}

type CatalogReads interface {
	GetPackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Package, error)
}

type UserReads interface {
	GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.User, error)
}

// View is a booking denormalized with display-ready package and user
// snapshots. PackageDeleted marks entries whose package reference no
// longer resolves; their Package is a placeholder and Status is forced to
// CANCELLED in the view (the stored booking is untouched).
type View struct {
	Booking        domain.Booking
	Package        domain.Package
	Username       string
	PackageDeleted bool
}

// Reader answers "bookings for user X" and "all bookings". Package and
// user records can be deleted after a booking references them, so every
// read degrades missing references to sentinels instead of failing the
// whole query.
type Reader struct {
	ledger  LedgerReads
	catalog CatalogReads
	users   UserReads
	logger  observability.Logger
}

func NewReader(ledger LedgerReads, catalog CatalogReads, users UserReads, logger observability.Logger) *Reader {
	return &Reader{ledger: ledger, catalog: catalog, users: users, logger: logger}
}

func (r *Reader) ListForUser(ctx context.Context, userID uuid.UUID) ([]View, error) {
	bookings, err := r.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.enrich(ctx, bookings)
}

func (r *Reader) ListAll(ctx context.Context) ([]View, error) {
	bookings, err := r.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return r.enrich(ctx, bookings)
}

func (r *Reader) enrich(ctx context.Context, bookings []domain.Booking) ([]View, error) {
	pkgIDs := make([]uuid.UUID, 0, len(bookings))
	userIDs := make([]uuid.UUID, 0, len(bookings))
	seenPkg := make(map[uuid.UUID]bool)
	seenUser := make(map[uuid.UUID]bool)
	for _, b := range bookings {
		if !seenPkg[b.PackageID] {
			seenPkg[b.PackageID] = true
			pkgIDs = append(pkgIDs, b.PackageID)
		}
		if !seenUser[b.UserID] {
			seenUser[b.UserID] = true
			userIDs = append(userIDs, b.UserID)
		}
	}

	pkgs, err := r.catalog.GetPackages(ctx, pkgIDs)
	if err != nil {
		return nil, err
	}
	users, err := r.users.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(bookings))
	for _, b := range bookings {
		v := View{Booking: b}

		if u, ok := users[b.UserID]; ok {
			v.Username = u.Username
		} else {
			v.Username = domain.UnknownUsername
		}

		if pkg, ok := pkgs[b.PackageID]; ok {
			v.Package = pkg
		} else {
			v.Package = domain.DeletedPackage()
			v.PackageDeleted = true
			v.Booking.Status = domain.StatusCancelled
		}
		views = append(views, v)
	}
	return views, nil
}
