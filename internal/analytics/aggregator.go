package analytics

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/domain"
)

type Ledger interface {
	ListAll(ctx context.Context) ([]domain.Booking, error)
}

type Catalog interface {
	GetPackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Package, error)
}

// Report is a point-in-time snapshot over the full booking set. It is
// never cached: callers get the ledger as it stands at call time, without
// any lock against concurrent reserves.
type Report struct {
	TotalRevenue           float64
	TotalBookings          int
	MostPopularPackages    []domain.Package
	ConfirmedBookingsCount int
	CancelledBookingsCount int
}

type Aggregator struct {
	ledger  Ledger
	catalog Catalog
}

func NewAggregator(ledger Ledger, catalog Catalog) *Aggregator {
	return &Aggregator{ledger: ledger, catalog: catalog}
}

const topPackages = 5

// Report scans the ledger joined with package prices. Revenue sums the
// package price over CONFIRMED bookings whose package still resolves;
// bookings whose package was deleted are excluded from revenue, not
// errors. Popularity counts bookings per package across all statuses;
// ties keep first-seen ledger order (unspecified but stable).
func (a *Aggregator) Report(ctx context.Context) (*Report, error) {
	bookings, err := a.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rep := &Report{TotalBookings: len(bookings)}

	counts := make(map[uuid.UUID]int)
	var order []uuid.UUID
	for _, b := range bookings {
		switch b.Status {
		case domain.StatusConfirmed:
			rep.ConfirmedBookingsCount++
		case domain.StatusCancelled:
			rep.CancelledBookingsCount++
		}
		if counts[b.PackageID] == 0 {
			order = append(order, b.PackageID)
		}
		counts[b.PackageID]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	top := order
	if len(top) > topPackages {
		top = top[:topPackages]
	}

	// One lookup covers both uses: revenue needs every referenced package
	// and the top slice is a subset of order.
	pkgs, err := a.catalog.GetPackages(ctx, order)
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		if b.Status != domain.StatusConfirmed {
			continue
		}
		pkg, ok := pkgs[b.PackageID]
		if !ok {
			continue
		}
		rep.TotalRevenue += pkg.Price
	}

	for _, id := range top {
		if pkg, ok := pkgs[id]; ok {
			rep.MostPopularPackages = append(rep.MostPopularPackages, pkg)
		}
	}
	return rep, nil
}
