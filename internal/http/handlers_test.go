package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/auth"
	"github.com/robertarktes/travel-reservations/internal/booking"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/observability"
)

func TestWriteErrorMapsDomainTaxonomy(t *testing.T) {
	h := &Handlers{logger: observability.NewLogger()}

	cases := []struct {
		err    error
		status int
	}{
		{errors.Wrap(domain.ErrInvalidInput, "bad date"), http.StatusBadRequest},
		{errors.Wrap(domain.ErrUnauthorized, "admins only"), http.StatusForbidden},
		{errors.Wrap(domain.ErrNotFound, "package"), http.StatusNotFound},
		{errors.Wrap(domain.ErrConflict, "sold out"), http.StatusConflict},
		{errors.Mark(errors.New("broker down"), domain.ErrUpstream), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.writeError(rec, tc.err)
		if rec.Code != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: invalid error body: %v", tc.err, err)
		}
		if body.Error == "" {
			t.Errorf("%v: expected an error message", tc.err)
		}
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	h := &Handlers{logger: observability.NewLogger()}
	rec := httptest.NewRecorder()
	h.writeError(rec, errors.New("password hash leaked here"))

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "internal error" {
		t.Errorf("internal errors must not leak details, got %q", body.Error)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2026-09-15"); err != nil {
		t.Errorf("day format: %v", err)
	}
	if _, err := parseDate("2026-09-15T10:00:00Z"); err != nil {
		t.Errorf("rfc3339: %v", err)
	}
	if _, err := parseDate("next tuesday"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret")
	var seen domain.Caller
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = callerFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(tokens)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", rec.Code)
	}

	u := domain.User{ID: uuid.New(), Username: "traveller", IsAdmin: true}
	token, err := tokens.Issue(u)
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", rec.Code)
	}
	if seen.UserID != u.ID || !seen.IsAdmin {
		t.Errorf("unexpected caller: %+v", seen)
	}
}

func TestBookingViewMarksDeletedPackage(t *testing.T) {
	b := domain.NewBooking(uuid.New(), uuid.New(), time.Now())
	b.Status = domain.StatusCancelled
	view := newBookingView(booking.View{
		Booking:        b,
		Package:        domain.DeletedPackage(),
		Username:       domain.UnknownUsername,
		PackageDeleted: true,
	})
	if view.Package.ID != "deleted" {
		t.Errorf("expected placeholder id, got %q", view.Package.ID)
	}
	if view.Status != string(domain.StatusCancelled) {
		t.Errorf("expected CANCELLED view status, got %s", view.Status)
	}
	if view.Package.Price != 0 {
		t.Errorf("placeholder package must carry zero price, got %v", view.Package.Price)
	}
}
