package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"restaurant-orders/internal/catalog"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/web"
)

// Handler routes HTTP requests to the catalog, the order intake service, or
// the static-file fallback. It holds no state of its own beyond the injected
// collaborators.
type Handler struct {
	service      *Service
	catalog      *catalog.Catalog
	static       *web.StaticServer
	logger       *logger.Logger
	maxBodyBytes int64
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, cat *catalog.Catalog, static *web.StaticServer, log *logger.Logger, maxBodyBytes int64) *Handler {
	return &Handler{
		service:      service,
		catalog:      cat,
		static:       static,
		logger:       log,
		maxBodyBytes: maxBodyBytes,
	}
}

// SetupRoutes sets up the HTTP routes. The catch-all GET pattern sends every
// path the API does not claim to the static-file fallback; requests with any
// other method fall out of the route set and get the mux's 405.
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /restaurants", h.withLogging(h.ListRestaurants))
	mux.HandleFunc("GET /restaurants/{id}", h.withLogging(h.GetRestaurant))
	mux.HandleFunc("POST /restaurants/{id}/orders", h.withLogging(h.CreateOrder))
	mux.HandleFunc("GET /", h.withLogging(h.static.ServeHTTP))

	return mux
}

// ListRestaurants handles GET /restaurants requests. The response keeps
// catalog insertion order.
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants := h.catalog.List()
	if restaurants == nil {
		restaurants = []*models.Restaurant{}
	}
	h.writeJSON(w, http.StatusOK, restaurants)
}

// GetRestaurant handles GET /restaurants/{id} requests. An id that is not a
// known restaurant, numeric or not, is a 404; never a null body.
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	restaurant, ok := h.catalog.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	h.writeJSON(w, http.StatusOK, restaurant)
}

// CreateOrder handles POST /restaurants/{id}/orders requests.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFrom(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var req models.OrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Debug("order_rejected", requestID, fmt.Sprintf("Unparseable order body: %v", err))
		h.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// The path id is authoritative; a body that names a different restaurant
	// is rejected rather than silently rerouted.
	if req.RestaurantID == 0 {
		req.RestaurantID = id
	} else if req.RestaurantID != id {
		h.writeError(w, http.StatusBadRequest, "restaurantId does not match the request path")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Debug("order_rejected", requestID, fmt.Sprintf("Order validation failed: %v", err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := h.service.SubmitOrder(r.Context(), &req, r.Header.Get("Idempotency-Key"), requestID)
	if err != nil {
		h.logger.Debug("order_rejected", requestID, fmt.Sprintf("Order refused: %v", err))
		switch {
		case errors.Is(err, ErrUnknownRestaurant):
			h.writeError(w, http.StatusNotFound, "Restaurant not found")
		case errors.Is(err, ErrUnknownMenuItem):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrBelowMinimumOrder):
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("order_failed", requestID, "Failed to submit order", err)
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	w.Header().Set("X-Order-Id", receipt.OrderID)
	w.WriteHeader(http.StatusCreated)
}

// writeJSON writes a JSON response body with the given status.
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "", "Failed to encode response", err)
	}
}

// writeError writes an error response in JSON format.
func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSON(w, statusCode, map[string]string{"error": message})
}

// withLogging adds request logging middleware.
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()
		r = r.WithContext(logger.WithRequestID(r.Context(), requestID))

		h.logger.Debug("request_started", requestID, fmt.Sprintf("%s %s", r.Method, r.URL.Path))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed", requestID,
			fmt.Sprintf("%s %s - %d in %dms", r.Method, r.URL.Path, rw.statusCode, duration.Milliseconds()))
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
