package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	mongoadapter "github.com/robertarktes/travel-reservations/internal/adapters/mongo"
	redisadapter "github.com/robertarktes/travel-reservations/internal/adapters/redis"
	"github.com/robertarktes/travel-reservations/internal/analytics"
	"github.com/robertarktes/travel-reservations/internal/auth"
	"github.com/robertarktes/travel-reservations/internal/booking"
	"github.com/robertarktes/travel-reservations/internal/config"
	"github.com/robertarktes/travel-reservations/internal/currency"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/observability"
	"github.com/robertarktes/travel-reservations/internal/wishlist"
)

type Handlers struct {
	cfg         *config.Config
	logger      observability.Logger
	validate    *validator.Validate
	authSvc     *auth.Service
	coordinator *booking.Coordinator
	reader      *booking.Reader
	aggregator  *analytics.Aggregator
	wishlist    *wishlist.Store
	catalog     *mongoadapter.CatalogRepository
	currency    *currency.Client
	idemp       *redisadapter.Idempotency
}

func NewHandlers(
	cfg *config.Config,
	logger observability.Logger,
	authSvc *auth.Service,
	coordinator *booking.Coordinator,
	reader *booking.Reader,
	aggregator *analytics.Aggregator,
	wl *wishlist.Store,
	catalog *mongoadapter.CatalogRepository,
	fx *currency.Client,
	idemp *redisadapter.Idempotency,
) *Handlers {
	return &Handlers{
		cfg:         cfg,
		logger:      logger,
		validate:    validator.New(),
		authSvc:     authSvc,
		coordinator: coordinator,
		reader:      reader,
		aggregator:  aggregator,
		wishlist:    wl,
		catalog:     catalog,
		currency:    fx,
		idemp:       idemp,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the domain taxonomy onto status codes. Unauthorized is
// mapped before NotFound so an unauthorized probe never learns whether a
// resource exists.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("internal error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, errors.Wrap(domain.ErrInvalidInput, "invalid id")
	}
	return id, nil
}

// ---- views ----

type packageView struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Duration     string    `json:"duration"`
	Destination  string    `json:"destination"`
	Category     string    `json:"category"`
	Availability int       `json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
}

func newPackageView(p domain.Package) packageView {
	return packageView{
		ID:           p.ID.String(),
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Duration:     p.Duration,
		Destination:  p.Destination,
		Category:     string(p.Category),
		Availability: p.Availability,
		CreatedAt:    p.CreatedAt,
	}
}

type bookingView struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Username  string      `json:"username,omitempty"`
	Package   packageView `json:"package"`
	Date      time.Time   `json:"date"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

func newBookingView(v booking.View) bookingView {
	pkg := newPackageView(v.Package)
	if v.PackageDeleted {
		pkg.ID = "deleted"
	}
	return bookingView{
		ID:        v.Booking.ID.String(),
		UserID:    v.Booking.UserID.String(),
		Username:  v.Username,
		Package:   pkg,
		Date:      v.Booking.Date,
		Status:    string(v.Booking.Status),
		CreatedAt: v.Booking.CreatedAt,
	}
}

type userView struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

func newUserView(u domain.User) userView {
	return userView{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
}

type wishlistView struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Package   packageView `json:"package"`
	CreatedAt time.Time   `json:"created_at"`
}

func newWishlistView(e wishlist.Entry) wishlistView {
	return wishlistView{
		ID:        e.Item.ID.String(),
		UserID:    e.Item.UserID.String(),
		Package:   newPackageView(e.Package),
		CreatedAt: e.Item.CreatedAt,
	}
}

// ---- auth ----

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username" validate:"required"`
		Email           string `json:"email" validate:"required"`
		Password        string `json:"password" validate:"required"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, err.Error()))
		return
	}

	user, token, err := h.authSvc.Register(r.Context(), auth.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  newUserView(*user),
		"token": token,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, err.Error()))
		return
	}

	user, token, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  newUserView(*user),
		"token": token,
	})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	user, err := h.authSvc.Profile(r.Context(), caller.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(*user))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	var req struct {
		Email           *string `json:"email"`
		FirstName       *string `json:"first_name"`
		LastName        *string `json:"last_name"`
		PhoneNumber     *string `json:"phone_number"`
		Password        *string `json:"password"`
		ConfirmPassword *string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed body"))
		return
	}

	user, err := h.authSvc.UpdateProfile(r.Context(), caller.UserID, auth.ProfileUpdate{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(*user))
}

// ---- packages ----

func (h *Handlers) ListPackages(w http.ResponseWriter, r *http.Request) {
	q := mongoadapter.PackageQuery{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}
	if v := r.URL.Query().Get("min_price"); v != "" {
		if f, err := parseFloat(v); err == nil {
			q.MinPrice = f
		}
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		if f, err := parseFloat(v); err == nil {
			q.MaxPrice = f
		}
	}
	if v := r.URL.Query().Get("min_availability"); v != "" {
		if n, err := parseInt(v); err == nil {
			q.MinAvailability = n
		}
	}

	pkgs, err := h.catalog.ListPackages(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	views := make([]packageView, 0, len(pkgs))
	for _, p := range pkgs {
		views = append(views, newPackageView(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	pkg, err := h.catalog.GetPackage(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	view := newPackageView(*pkg)
	if code := r.URL.Query().Get("currency"); code != "" {
		rate, err := h.currency.Rate(r.Context(), code)
		if err != nil {
			h.writeError(w, err)
			return
		}
		// display-only conversion, never persisted
		view.Price = currency.Convert(pkg.Price, rate)
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) CreatePackage(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	if !caller.IsAdmin {
		h.writeError(w, errors.Wrap(domain.ErrUnauthorized, "only admins can create travel packages"))
		return
	}

	var req struct {
		Title        string  `json:"title" validate:"required"`
		Description  string  `json:"description" validate:"required"`
		Price        float64 `json:"price" validate:"gte=0"`
		Duration     string  `json:"duration" validate:"required"`
		Destination  string  `json:"destination" validate:"required"`
		Category     string  `json:"category" validate:"required"`
		Availability int     `json:"availability" validate:"gte=0"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, err.Error()))
		return
	}
	if !domain.Category(req.Category).Valid() {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "invalid category"))
		return
	}

	pkg := domain.Package{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Duration:     req.Duration,
		Destination:  req.Destination,
		Category:     domain.Category(req.Category),
		Availability: req.Availability,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.catalog.CreatePackage(r.Context(), pkg); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPackageView(pkg))
}

func (h *Handlers) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	if !caller.IsAdmin {
		h.writeError(w, errors.Wrap(domain.ErrUnauthorized, "only admins can edit travel packages"))
		return
	}
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req struct {
		Title        *string  `json:"title"`
		Description  *string  `json:"description"`
		Price        *float64 `json:"price"`
		Duration     *string  `json:"duration"`
		Destination  *string  `json:"destination"`
		Category     *string  `json:"category"`
		Availability *int     `json:"availability"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed body"))
		return
	}
	if req.Price != nil && *req.Price < 0 {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "price must not be negative"))
		return
	}
	if req.Availability != nil && *req.Availability < 0 {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "availability must not be negative"))
		return
	}
	if req.Category != nil && !domain.Category(*req.Category).Valid() {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "invalid category"))
		return
	}

	pkg, err := h.catalog.UpdatePackage(r.Context(), id, mongoadapter.PackageUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Duration:     req.Duration,
		Destination:  req.Destination,
		Category:     req.Category,
		Availability: req.Availability,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPackageView(*pkg))
}

func (h *Handlers) DeletePackage(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	if !caller.IsAdmin {
		h.writeError(w, errors.Wrap(domain.ErrUnauthorized, "only admins can delete travel packages"))
		return
	}
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.catalog.DeletePackage(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id.String(),
		"success": true,
		"message": "travel package deleted",
	})
}

// ---- bookings ----

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	idempKey := r.Header.Get("Idempotency-Key")
	if idempKey != "" {
		existing, err := h.idemp.Get(r.Context(), idempKey)
		if err != nil {
			h.writeError(w, errors.Mark(err, domain.ErrUpstream))
			return
		}
		if existing != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(existing.Status)
			w.Write(existing.Body)
			return
		}
	}

	var req struct {
		PackageID string `json:"package_id" validate:"required"`
		Date      string `json:"date" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, err.Error()))
		return
	}
	packageID, err := parseID(req.PackageID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	b, err := h.coordinator.Reserve(r.Context(), packageID, caller.UserID, date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	views, err := h.reader.ListForUser(r.Context(), caller.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var resp bookingView
	for _, v := range views {
		if v.Booking.ID == b.ID {
			resp = newBookingView(v)
			break
		}
	}

	data, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(data)

	if idempKey != "" {
		if err := h.idemp.Set(r.Context(), idempKey, redisadapter.StoredResponse{Status: http.StatusCreated, Body: data}); err != nil {
			h.logger.Error("failed to store idempotent response", err)
		}
	}
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	b, err := h.coordinator.Cancel(r.Context(), id, caller.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":     b.ID.String(),
		"status": string(b.Status),
	})
}

func (h *Handlers) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	views, err := h.reader.ListForUser(r.Context(), caller.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]bookingView, 0, len(views))
	for _, v := range views {
		out = append(out, newBookingView(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	if !caller.IsAdmin {
		h.writeError(w, errors.Wrap(domain.ErrUnauthorized, "only admins can list all bookings"))
		return
	}
	views, err := h.reader.ListAll(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]bookingView, 0, len(views))
	for _, v := range views {
		out = append(out, newBookingView(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- analytics ----

func (h *Handlers) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	if !caller.IsAdmin {
		h.writeError(w, errors.Wrap(domain.ErrUnauthorized, "only admins can view analytics"))
		return
	}

	rep, err := h.aggregator.Report(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	popular := make([]packageView, 0, len(rep.MostPopularPackages))
	for _, p := range rep.MostPopularPackages {
		popular = append(popular, newPackageView(p))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_revenue":            rep.TotalRevenue,
		"total_bookings":           rep.TotalBookings,
		"most_popular_packages":    popular,
		"confirmed_bookings_count": rep.ConfirmedBookingsCount,
		"cancelled_bookings_count": rep.CancelledBookingsCount,
	})
}

// ---- wishlist ----

func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	var req struct {
		PackageID string `json:"package_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, errors.Wrap(domain.ErrInvalidInput, err.Error()))
		return
	}
	packageID, err := parseID(req.PackageID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	entry, err := h.wishlist.Add(r.Context(), caller.UserID, packageID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newWishlistView(*entry))
}

func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	packageID, err := parseID(chi.URLParam(r, "packageId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	item, err := h.wishlist.Remove(r.Context(), caller.UserID, packageID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         item.ID.String(),
		"package_id": item.PackageID.String(),
	})
}

func (h *Handlers) ListWishlist(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	entries, err := h.wishlist.List(r.Context(), caller.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]wishlistView, 0, len(entries))
	for _, e := range entries {
		out = append(out, newWishlistView(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- admin users ----

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	users, err := h.authSvc.ListUsers(r.Context(), caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, newUserView(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) RemoveUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.authSvc.RemoveUser(r.Context(), caller, id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id.String(),
		"message": "user removed",
	})
}

func parseFloat(v string) (float64, error) {
	return strconv.ParseFloat(v, 64)
}

func parseInt(v string) (int, error) {
	return strconv.Atoi(v)
}

// parseDate accepts RFC 3339 or a bare YYYY-MM-DD day.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Time{}, errors.Wrap(domain.ErrInvalidInput, "invalid date format")
}

// ---- health ----

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
