package booking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/booking"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/events"
	"github.com/robertarktes/travel-reservations/internal/observability"
)

type fakeCatalog struct {
	mu        sync.Mutex
	pkgs      map[uuid.UUID]*domain.Package
	adjustErr error
}

func newFakeCatalog(pkgs ...domain.Package) *fakeCatalog {
	c := &fakeCatalog{pkgs: make(map[uuid.UUID]*domain.Package)}
	for i := range pkgs {
		p := pkgs[i]
		c.pkgs[p.ID] = &p
	}
	return c
}

func (c *fakeCatalog) GetPackage(_ context.Context, id uuid.UUID) (*domain.Package, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pkgs[id]
	if !ok {
		return nil, errors.Wrap(domain.ErrNotFound, "package")
	}
	cp := *p
	return &cp, nil
}

func (c *fakeCatalog) DecrementIfAvailable(_ context.Context, id uuid.UUID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pkgs[id]
	if !ok {
		return false, errors.Wrap(domain.ErrNotFound, "package")
	}
	if p.Availability <= 0 {
		return false, nil
	}
	p.Availability--
	return true, nil
}

func (c *fakeCatalog) AdjustAvailability(_ context.Context, id uuid.UUID, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.adjustErr != nil {
		return c.adjustErr
	}
	p, ok := c.pkgs[id]
	if !ok {
		return errors.Wrap(domain.ErrNotFound, "package")
	}
	p.Availability += delta
	return nil
}

func (c *fakeCatalog) availability(id uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pkgs[id].Availability
}

type fakeLedger struct {
	mu         sync.Mutex
	bookings   map[uuid.UUID]*domain.Booking
	insertErr  error
	beforeFlip func(b *domain.Booking)
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{bookings: make(map[uuid.UUID]*domain.Booking)}
}

func (l *fakeLedger) InsertBooking(_ context.Context, b domain.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.insertErr != nil {
		return l.insertErr
	}
	cp := b
	l.bookings[b.ID] = &cp
	return nil
}

func (l *fakeLedger) GetBookingForUser(_ context.Context, id, userID uuid.UUID) (*domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bookings[id]
	if !ok || b.UserID != userID {
		return nil, errors.Wrap(domain.ErrNotFound, "booking")
	}
	cp := *b
	return &cp, nil
}

func (l *fakeLedger) MarkCancelled(_ context.Context, id, userID uuid.UUID) (*domain.Booking, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bookings[id]
	if ok && l.beforeFlip != nil {
		l.beforeFlip(b)
	}
	if !ok || b.UserID != userID || b.Status == domain.StatusCancelled {
		return nil, false, nil
	}
	b.Status = domain.StatusCancelled
	cp := *b
	return &cp, true, nil
}

type fakeUsers struct {
	users map[uuid.UUID]domain.User
}

func (u *fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*domain.User, error) {
	usr, ok := u.users[id]
	if !ok {
		return nil, errors.Wrap(domain.ErrNotFound, "user")
	}
	return &usr, nil
}

func testUser() (uuid.UUID, *fakeUsers) {
	id := uuid.New()
	return id, &fakeUsers{users: map[uuid.UUID]domain.User{
		id: {ID: id, Username: "traveller"},
	}}
}

func testPackage(availability int) domain.Package {
	return domain.Package{
		ID:           uuid.New(),
		Title:        "Lofoten by kayak",
		Price:        950,
		Category:     domain.CategoryAdventure,
		Availability: availability,
		CreatedAt:    time.Now(),
	}
}

func newCoordinator(catalog *fakeCatalog, ledger *fakeLedger, users *fakeUsers, policy booking.RestockPolicy) (*booking.Coordinator, *events.Bus) {
	bus := events.NewBus()
	c := booking.NewCoordinator(catalog, ledger, users, bus, policy, observability.NewLogger())
	return c, bus
}

func TestReserveDecrementsAndConfirms(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(10)
	catalog := newFakeCatalog(pkg)
	ledger := newFakeLedger()
	coord, bus := newCoordinator(catalog, ledger, users, booking.DefaultRestockPolicy())

	created, cancel := bus.Subscribe(events.BookingCreated, 1)
	defer cancel()

	b, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now().AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.Status != domain.StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", b.Status)
	}
	if got := catalog.availability(pkg.ID); got != 9 {
		t.Errorf("expected availability 9, got %d", got)
	}

	select {
	case ev := <-created:
		payload, ok := ev.Payload.(booking.EventPayload)
		if !ok || payload.BookingID != b.ID {
			t.Errorf("unexpected event payload %v", ev.Payload)
		}
	default:
		t.Error("expected booking.created event")
	}
}

func TestReserveRestocksWhenLow(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(2)
	catalog := newFakeCatalog(pkg)
	coord, _ := newCoordinator(catalog, newFakeLedger(), users, booking.RestockPolicy{Threshold: 3, Amount: 3})

	if _, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// 2 + 3 restocked - 1 reserved
	if got := catalog.availability(pkg.ID); got != 4 {
		t.Errorf("expected availability 4, got %d", got)
	}
}

func TestReserveExhaustedWithoutRestock(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(0)
	catalog := newFakeCatalog(pkg)
	coord, _ := newCoordinator(catalog, newFakeLedger(), users, booking.RestockPolicy{})

	_, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := catalog.availability(pkg.ID); got != 0 {
		t.Errorf("availability must stay 0, got %d", got)
	}
}

func TestReserveUnknownReferences(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(5)
	catalog := newFakeCatalog(pkg)
	coord, _ := newCoordinator(catalog, newFakeLedger(), users, booking.DefaultRestockPolicy())

	if _, err := coord.Reserve(context.Background(), uuid.New(), userID, time.Now()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown package: expected not found, got %v", err)
	}
	if _, err := coord.Reserve(context.Background(), pkg.ID, uuid.New(), time.Now()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown user: expected not found, got %v", err)
	}
	if _, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Time{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("zero date: expected invalid input, got %v", err)
	}
}

func TestReserveCompensatesFailedLedgerWrite(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(10)
	catalog := newFakeCatalog(pkg)
	ledger := newFakeLedger()
	ledger.insertErr = errors.Mark(errors.New("mongo down"), domain.ErrUpstream)
	coord, _ := newCoordinator(catalog, ledger, users, booking.DefaultRestockPolicy())

	_, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now())
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got := catalog.availability(pkg.ID); got != 10 {
		t.Errorf("decrement must be compensated, availability = %d", got)
	}
}

func TestConcurrentReserveLastUnit(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(1)
	catalog := newFakeCatalog(pkg)
	ledger := newFakeLedger()
	coord, _ := newCoordinator(catalog, ledger, users, booking.RestockPolicy{})

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var confirmed, conflicts int
	for err := range results {
		switch {
		case err == nil:
			confirmed++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if confirmed != 1 || conflicts != 1 {
		t.Errorf("expected exactly one winner, got %d confirmed / %d conflicts", confirmed, conflicts)
	}
	if got := catalog.availability(pkg.ID); got != 0 {
		t.Errorf("availability must be 0, got %d", got)
	}
	if len(ledger.bookings) != 1 {
		t.Errorf("expected exactly one booking, got %d", len(ledger.bookings))
	}
}

func TestCancelRestoresAvailability(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(10) // above the restock threshold to isolate the property
	catalog := newFakeCatalog(pkg)
	ledger := newFakeLedger()
	coord, bus := newCoordinator(catalog, ledger, users, booking.DefaultRestockPolicy())

	cancelled, stop := bus.Subscribe(events.BookingCancelled, 1)
	defer stop()

	b, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	got, err := coord.Cancel(context.Background(), b.ID, userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", got.Status)
	}
	if av := catalog.availability(pkg.ID); av != 10 {
		t.Errorf("expected availability back to 10, got %d", av)
	}

	select {
	case <-cancelled:
	default:
		t.Error("expected booking.cancelled event")
	}
}

func TestCancelTwiceDoesNotRecredit(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(10)
	catalog := newFakeCatalog(pkg)
	coord, _ := newCoordinator(catalog, newFakeLedger(), users, booking.DefaultRestockPolicy())

	b, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := coord.Cancel(context.Background(), b.ID, userID); err != nil {
		t.Fatal(err)
	}

	again, err := coord.Cancel(context.Background(), b.ID, userID)
	if err != nil {
		t.Fatalf("repeated cancel must be a no-op, got %v", err)
	}
	if again.Status != domain.StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", again.Status)
	}
	if av := catalog.availability(pkg.ID); av != 10 {
		t.Errorf("availability must not be re-credited, got %d", av)
	}
}

func TestCancelNotOwnedOrMissing(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(10)
	catalog := newFakeCatalog(pkg)
	ledger := newFakeLedger()
	coord, _ := newCoordinator(catalog, ledger, users, booking.DefaultRestockPolicy())

	b, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := coord.Cancel(context.Background(), uuid.New(), userID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing booking: expected not found, got %v", err)
	}
	if _, err := coord.Cancel(context.Background(), b.ID, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign booking: expected not found, got %v", err)
	}
	if av := catalog.availability(pkg.ID); av != 9 {
		t.Errorf("failed cancels must not touch availability, got %d", av)
	}
}

func TestCancelCreditFailureLeavesBookingCancellable(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(10)
	catalog := newFakeCatalog(pkg)
	ledger := newFakeLedger()
	coord, _ := newCoordinator(catalog, ledger, users, booking.DefaultRestockPolicy())

	b, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	catalog.adjustErr = errors.Mark(errors.New("mongo down"), domain.ErrUpstream)
	if _, err := coord.Cancel(context.Background(), b.ID, userID); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	// The failed credit must not leave the booking CANCELLED with the
	// unit still taken: the flip never ran, so a retry can complete.
	stored, err := ledger.GetBookingForUser(context.Background(), b.ID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != domain.StatusConfirmed {
		t.Errorf("booking must stay CONFIRMED after a failed credit, got %s", stored.Status)
	}

	catalog.adjustErr = nil
	got, err := coord.Cancel(context.Background(), b.ID, userID)
	if err != nil {
		t.Fatalf("retry must succeed, got %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Errorf("expected CANCELLED after retry, got %s", got.Status)
	}
	if av := catalog.availability(pkg.ID); av != 10 {
		t.Errorf("retry must credit the unit back exactly once, got %d", av)
	}
}

func TestCancelRaceTakesCreditBack(t *testing.T) {
	userID, users := testUser()
	pkg := testPackage(10)
	catalog := newFakeCatalog(pkg)
	ledger := newFakeLedger()
	coord, _ := newCoordinator(catalog, ledger, users, booking.DefaultRestockPolicy())

	b, err := coord.Reserve(context.Background(), pkg.ID, userID, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	// A competing cancel flips the booking between the read and the
	// conditional update.
	ledger.beforeFlip = func(stored *domain.Booking) {
		stored.Status = domain.StatusCancelled
	}

	got, err := coord.Cancel(context.Background(), b.ID, userID)
	if err != nil {
		t.Fatalf("losing the race is not an error, got %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Errorf("expected the stored CANCELLED booking, got %s", got.Status)
	}
	if av := catalog.availability(pkg.ID); av != 9 {
		t.Errorf("the loser's credit must be taken back, got availability %d", av)
	}
}
