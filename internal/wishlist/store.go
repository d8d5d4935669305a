package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/observability"
)

type Repository interface {
	Add(ctx context.Context, item domain.WishlistItem) error
	Remove(ctx context.Context, userID, packageID uuid.UUID) (*domain.WishlistItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error)
}

type Catalog interface {
	GetPackage(ctx context.Context, id uuid.UUID) (*domain.Package, error)
	GetPackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Package, error)
}

type Users interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Entry is a wishlist item enriched with a package snapshot for display.
type Entry struct {
	Item    domain.WishlistItem
	Package domain.Package
}

type Store struct {
	repo    Repository
	catalog Catalog
	users   Users
	logger  observability.Logger
}

func NewStore(repo Repository, catalog Catalog, users Users, logger observability.Logger) *Store {
	return &Store{repo: repo, catalog: catalog, users: users, logger: logger}
}

// Add validates both references before writing. A pair that already
// exists fails with ErrConflict (enforced by the unique index, so a racing
// duplicate loses too).
func (s *Store) Add(ctx context.Context, userID, packageID uuid.UUID) (*Entry, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	pkg, err := s.catalog.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	item := domain.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		PackageID: packageID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Add(ctx, item); err != nil {
		return nil, err
	}
	return &Entry{Item: item, Package: *pkg}, nil
}

func (s *Store) Remove(ctx context.Context, userID, packageID uuid.UUID) (*domain.WishlistItem, error) {
	return s.repo.Remove(ctx, userID, packageID)
}

// List returns the user's entries in insertion order. Entries whose
// package has since been deleted are dropped from the listing; the
// wishlist association conceptually dies with the package.
func (s *Store) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.PackageID)
	}
	pkgs, err := s.catalog.GetPackages(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		pkg, ok := pkgs[it.PackageID]
		if !ok {
			s.logger.WithField("package_id", it.PackageID.String()).
				Debug("skipping wishlist entry for deleted package")
			continue
		}
		entries = append(entries, Entry{Item: it, Package: pkg})
	}
	return entries, nil
}
