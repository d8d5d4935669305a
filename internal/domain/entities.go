package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryAdventure Category = "Adventure"
	CategoryRomantic  Category = "Romantic"
	CategoryFamily    Category = "Family"
	CategoryCultural  Category = "Cultural"
	CategoryOther     Category = "Other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAdventure, CategoryRomantic, CategoryFamily, CategoryCultural, CategoryOther:
		return true
	}
	return false
}

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// Package is a bookable travel offering with a finite availability count.
// Availability is only ever mutated through atomic delta updates in the
// catalog repository.
type Package struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Price        float64
	Duration     string
	Destination  string
	Category     Category
	Availability int
	CreatedAt    time.Time
}

// Booking reserves one unit of a package's availability. After creation
// only Status ever changes, and only to CANCELLED.
type Booking struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PackageID uuid.UUID
	Date      time.Time
	Status    BookingStatus
	CreatedAt time.Time
}

type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PackageID uuid.UUID
	CreatedAt time.Time
}

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  string
	IsAdmin      bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Caller is the authenticated identity attached to a request. Admin-only
// operations trust IsAdmin verbatim; it is never inferred from ambient
// state inside an operation.
type Caller struct {
	UserID  uuid.UUID
	IsAdmin bool
}
