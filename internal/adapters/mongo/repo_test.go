package mongo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	mongoadapter "github.com/robertarktes/travel-reservations/internal/adapters/mongo"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/observability"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupDB(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForExec([]string{"mongosh", "--eval", "db.runCommand('ping').ok"}),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatal(err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://"+host+":"+port.Port()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Disconnect(ctx) })

	return client.Database("trv_test")
}

func seedPackage(t *testing.T, repo *mongoadapter.CatalogRepository, availability int) domain.Package {
	t.Helper()
	pkg := domain.Package{
		ID:           uuid.New(),
		Title:        "Lofoten by kayak",
		Description:  "Five days of paddling",
		Price:        950,
		Duration:     "5 days",
		Destination:  "Norway",
		Category:     domain.CategoryAdventure,
		Availability: availability,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := repo.CreatePackage(context.Background(), pkg); err != nil {
		t.Fatal(err)
	}
	return pkg
}

func TestCatalogRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	logger := observability.NewLogger()
	repo := mongoadapter.NewCatalogRepository(db, logger)

	t.Run("round trip", func(t *testing.T) {
		pkg := seedPackage(t, repo, 5)

		got, err := repo.GetPackage(ctx, pkg.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Title != pkg.Title || got.Availability != 5 || got.Category != domain.CategoryAdventure {
			t.Errorf("unexpected package: %+v", got)
		}

		if _, err := repo.GetPackage(ctx, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("list with filters", func(t *testing.T) {
		pkg := seedPackage(t, repo, 5)

		pkgs, err := repo.ListPackages(ctx, mongoadapter.PackageQuery{Search: "lofoten", MinPrice: 900})
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, p := range pkgs {
			if p.ID == pkg.ID {
				found = true
			}
		}
		if !found {
			t.Error("expected the seeded package in the filtered listing")
		}

		pkgs, err = repo.ListPackages(ctx, mongoadapter.PackageQuery{MinPrice: 10000})
		if err != nil {
			t.Fatal(err)
		}
		if len(pkgs) != 0 {
			t.Errorf("expected empty listing, got %d", len(pkgs))
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		pkg := seedPackage(t, repo, 5)

		price := 1200.0
		updated, err := repo.UpdatePackage(ctx, pkg.ID, mongoadapter.PackageUpdate{Price: &price})
		if err != nil {
			t.Fatal(err)
		}
		if updated.Price != 1200 {
			t.Errorf("expected price 1200, got %v", updated.Price)
		}

		if err := repo.DeletePackage(ctx, pkg.ID); err != nil {
			t.Fatal(err)
		}
		if err := repo.DeletePackage(ctx, pkg.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("conditional decrement never oversells", func(t *testing.T) {
		pkg := seedPackage(t, repo, 1)

		var wg sync.WaitGroup
		wins := make(chan bool, 4)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.DecrementIfAvailable(ctx, pkg.ID)
				if err != nil {
					t.Error(err)
					return
				}
				wins <- ok
			}()
		}
		wg.Wait()
		close(wins)

		var winners int
		for ok := range wins {
			if ok {
				winners++
			}
		}
		if winners != 1 {
			t.Errorf("expected exactly one winner for the last unit, got %d", winners)
		}

		got, err := repo.GetPackage(ctx, pkg.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Availability != 0 {
			t.Errorf("expected availability 0, got %d", got.Availability)
		}
	})

	t.Run("adjust availability", func(t *testing.T) {
		pkg := seedPackage(t, repo, 2)

		if err := repo.AdjustAvailability(ctx, pkg.ID, 3); err != nil {
			t.Fatal(err)
		}
		got, err := repo.GetPackage(ctx, pkg.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Availability != 5 {
			t.Errorf("expected availability 5, got %d", got.Availability)
		}

		if err := repo.AdjustAvailability(ctx, uuid.New(), 1); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestLedgerRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := mongoadapter.NewLedgerRepository(db, observability.NewLogger())

	userID := uuid.New()
	b := domain.NewBooking(uuid.New(), userID, time.Now().UTC().Truncate(time.Millisecond))
	if err := repo.InsertBooking(ctx, b); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetBookingForUser(ctx, b.ID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", got.Status)
	}
	if _, err := repo.GetBookingForUser(ctx, b.ID, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign booking: expected not found, got %v", err)
	}

	cancelled, flipped, err := repo.MarkCancelled(ctx, b.ID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !flipped || cancelled.Status != domain.StatusCancelled {
		t.Errorf("expected a flipped CANCELLED booking, got flipped=%v status=%v", flipped, cancelled)
	}

	// Second cancel must not match the filtered update.
	again, flipped, err := repo.MarkCancelled(ctx, b.ID, userID)
	if err != nil {
		t.Fatal(err)
	}
	if flipped || again != nil {
		t.Errorf("repeated cancel must be a no-op, got flipped=%v booking=%v", flipped, again)
	}

	mine, err := repo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 {
		t.Errorf("expected 1 booking, got %d", len(mine))
	}
}

func TestWishlistRepositoryUniqueIndex(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := mongoadapter.NewWishlistRepository(db, observability.NewLogger())
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatal(err)
	}

	userID := uuid.New()
	packageID := uuid.New()
	item := domain.WishlistItem{ID: uuid.New(), UserID: userID, PackageID: packageID, CreatedAt: time.Now().UTC()}
	if err := repo.Add(ctx, item); err != nil {
		t.Fatal(err)
	}

	dup := domain.WishlistItem{ID: uuid.New(), UserID: userID, PackageID: packageID, CreatedAt: time.Now().UTC()}
	if err := repo.Add(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	removed, err := repo.Remove(ctx, userID, packageID)
	if err != nil {
		t.Fatal(err)
	}
	if removed.ID != item.ID {
		t.Errorf("expected the original item back, got %v", removed.ID)
	}
	if _, err := repo.Remove(ctx, userID, packageID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUserRepositoryUniqueness(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := mongoadapter.NewUserRepository(db, observability.NewLogger())
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatal(err)
	}

	u := domain.User{
		ID:           uuid.New(),
		Username:     "traveller",
		Email:        "traveller@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	dup := u
	dup.ID = uuid.New()
	dup.Email = "other@example.com"
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate username: expected conflict, got %v", err)
	}

	byName, err := repo.GetByUsername(ctx, "traveller")
	if err != nil {
		t.Fatal(err)
	}
	if byName.ID != u.ID {
		t.Errorf("expected %s, got %s", u.ID, byName.ID)
	}
}
