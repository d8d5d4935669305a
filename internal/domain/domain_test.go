package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{CategoryAdventure, CategoryRomantic, CategoryFamily, CategoryCultural, CategoryOther} {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	for _, c := range []Category{"", "adventure", "Beach"} {
		if c.Valid() {
			t.Errorf("%q should be invalid", c)
		}
	}
}

func TestNewBookingDefaultsToConfirmed(t *testing.T) {
	date := time.Now().AddDate(0, 2, 0)
	b := NewBooking(uuid.New(), uuid.New(), date)

	if b.Status != StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", b.Status)
	}
	if b.ID == (uuid.UUID{}) {
		t.Error("expected a generated id")
	}
	if !b.Date.Equal(date) {
		t.Errorf("expected date %v, got %v", date, b.Date)
	}
	if !b.Cancellable() {
		t.Error("a confirmed booking is cancellable")
	}

	b.Status = StatusCancelled
	if b.Cancellable() {
		t.Error("a cancelled booking is not cancellable")
	}
}

func TestDeletedPackagePlaceholder(t *testing.T) {
	p := DeletedPackage()
	if p.Price != 0 || p.Availability != 0 {
		t.Errorf("placeholder must be zero-valued, got %+v", p)
	}
	if p.Title == "" {
		t.Error("placeholder needs a display title")
	}
}
