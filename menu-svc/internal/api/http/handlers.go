package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"noirqr/menu-svc/internal/domain"
	"noirqr/menu-svc/internal/metrics"
	"noirqr/menu-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Services are the business operations the API exposes.
type Services struct {
	Auth    service.AuthServiceInterface
	Venues  service.VenueServiceInterface
	Menu    service.MenuServiceInterface
	Orders  service.OrderServiceInterface
	QR      service.QRServiceInterface
	Uploads service.UploadServiceInterface
}

type Handler struct {
	Services
	Log logrus.FieldLogger

	// Optional.
	Metrics      *metrics.Metrics
	UploadsDir   string
	OrderLimiter *RateLimiter
	AuthLimiter  *RateLimiter
	Clients      *ClientResolver
}

func NewHandler(svcs Services, log logrus.FieldLogger) *Handler {
	return &Handler{Services: svcs, Log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler()).Methods("GET")
	}
	if h.UploadsDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadsDir)))).Methods("GET", "HEAD")
	}

	r.HandleFunc("/api/auth/register", h.limit(h.AuthLimiter, h.register)).Methods("POST")
	r.HandleFunc("/api/auth/login", h.limit(h.AuthLimiter, h.login)).Methods("POST")
	r.HandleFunc("/api/auth/verify", h.verify).Methods("POST")

	r.HandleFunc("/api/venues", h.listVenues).Methods("GET")
	r.HandleFunc("/api/venue/{slug}", h.getVenue).Methods("GET")
	r.HandleFunc("/api/venue/{slug}/menu", h.listMenu).Methods("GET")
	r.HandleFunc("/api/venue/{id}/qr-image", h.qrImage).Methods("GET")

	r.HandleFunc("/api/admin/venues", h.requireAuth(h.listOwnedVenues)).Methods("GET")
	r.HandleFunc("/api/admin/venue", h.requireAuth(h.createVenue)).Methods("POST")
	r.HandleFunc("/api/admin/venue/{id}", h.requireAuth(h.updateVenue)).Methods("PUT")
	r.HandleFunc("/api/admin/venue/{id}", h.requireAuth(h.deleteVenue)).Methods("DELETE")
	r.HandleFunc("/api/admin/venue/{id}/menu-item", h.requireAuth(h.createMenuItem)).Methods("POST")
	r.HandleFunc("/api/admin/menu-item/{itemId}", h.requireAuth(h.updateMenuItem)).Methods("PUT")
	r.HandleFunc("/api/admin/menu-item/{venueId}/{itemId}", h.requireAuth(h.deleteMenuItem)).Methods("DELETE")
	r.HandleFunc("/api/admin/venue/{id}/qr", h.requireAuth(h.qrPayload)).Methods("GET")
	r.HandleFunc("/api/admin/venue/{id}/orders", h.requireAuth(h.listVenueOrders)).Methods("GET")
	r.HandleFunc("/api/admin/orders", h.requireAuth(h.listOrders)).Methods("GET")

	r.HandleFunc("/api/upload", h.requireAuth(h.upload)).Methods("POST")

	r.HandleFunc("/api/order", h.limit(h.OrderLimiter, h.createOrder)).Methods("POST")
	r.HandleFunc("/api/order/{id}", h.getOrder).Methods("GET")
}

// limit applies rl per client address.
func (h *Handler) limit(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(h.Clients.ClientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r)
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "menu-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// pathID parses a numeric route variable. Anything unparsable cannot name a record,
// so it is reported as notFound.
func pathID(r *http.Request, name string, notFound error) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, notFound
	}
	return id, nil
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.Verify(r.Context(), sessionToken(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"user":  user.Public(),
	})
}

func (h *Handler) listOwnedVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.Venues.ListOwned(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

func (h *Handler) listVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.Venues.ListAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

func (h *Handler) getVenue(w http.ResponseWriter, r *http.Request) {
	venue, err := h.Venues.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

func (h *Handler) createVenue(w http.ResponseWriter, r *http.Request) {
	var in service.CreateVenueInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	venue, err := h.Venues.Create(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, venue)
}

func (h *Handler) updateVenue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", service.ErrVenueNotFound)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var upd domain.VenueUpdate
	if err := decodeJSON(r, &upd); err != nil {
		h.fail(w, r, err)
		return
	}
	venue, err := h.Venues.Update(r.Context(), principalFrom(r.Context()), id, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

func (h *Handler) deleteVenue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", service.ErrVenueNotFound)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Venues.Delete(r.Context(), principalFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Venue deleted"})
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	venueID, err := pathID(r, "id", service.ErrVenueNotFound)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in service.CreateMenuItemInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.Menu.Create(r.Context(), principalFrom(r.Context()), venueID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId", service.ErrItemNotFound)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var upd domain.MenuItemUpdate
	if err := decodeJSON(r, &upd); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.Menu.Update(r.Context(), principalFrom(r.Context()), itemID, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item updated",
		"item":    item,
	})
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	venueID, err := pathID(r, "venueId", service.ErrVenueNotFound)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	itemID, err := strconv.ParseInt(mux.Vars(r)["itemId"], 10, 64)
	if err != nil {
		h.fail(w, r, service.ErrItemNotFound)
		return
	}
	if err := h.Menu.Delete(r.Context(), principalFrom(r.Context()), venueID, itemID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

func (h *Handler) qrPayload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", service.ErrVenueNotFound)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	payload, err := h.QR.Payload(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) qrImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", service.ErrVenueNotFound)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	png, err := h.QR.Image(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	// Multipart framing needs some room on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, service.ErrFileTooLarge)
			return
		}
		h.fail(w, r, service.ErrNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, service.ErrNoFile)
		return
	}
	defer file.Close()

	if header.Size > service.MaxUploadSize {
		h.fail(w, r, service.ErrFileTooLarge)
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadSize+1))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.Uploads.Upload(r.Context(), principalFrom(r.Context()), header.Header.Get("Content-Type"), data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in service.CreateOrderInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, service.ErrInvalidOrder)
		return
	}
	order, err := h.Orders.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.OrderCreated()
	}
	h.Log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"venue_id": order.VenueID,
		"total":    order.TotalPrice,
	}).Info("order received")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"orderId": order.ID,
		"message": "Order received",
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", service.ErrOrderNotFound)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status, err := h.Orders.Status(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) listVenueOrders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", service.ErrVenueNotFound)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	orders, err := h.Orders.ListVenue(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
