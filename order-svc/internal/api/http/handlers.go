package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"homecafe/order-svc/internal/domain"
	"homecafe/order-svc/internal/service"

	"github.com/gorilla/mux"
)

const secretHeader = "X-Webhook-Secret"

type Handler struct {
	Dispatcher   service.DispatcherInterface
	Fulfillment  service.FulfillmentServiceInterface
	Secret       string
	RecentLimit  int
	PendingLimit int
	Clock        func() time.Time
}

func NewHandler(dispatcher service.DispatcherInterface, fulfillment service.FulfillmentServiceInterface, secret string) *Handler {
	return &Handler{
		Dispatcher:   dispatcher,
		Fulfillment:  fulfillment,
		Secret:       secret,
		RecentLimit:  10,
		PendingLimit: 10,
		Clock:        time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.requireSecret)

	api.HandleFunc("/chat/updates", h.receiveUpdate).Methods("POST")

	api.HandleFunc("/staff/orders", h.recentOrders).Methods("GET")
	api.HandleFunc("/staff/orders/today", h.dailySummary).Methods("GET")
	api.HandleFunc("/staff/orders/pending", h.pendingOrders).Methods("GET")
	api.HandleFunc("/staff/orders/{id}/ready", h.markReady).Methods("POST")
}

// requireSecret rejects requests that do not carry the shared webhook secret.
func (h *Handler) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(secretHeader)
		if h.Secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
			http.Error(w, "invalid webhook secret", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// receiveUpdate answers 200 once the update has been handled, even when the
// reply could not be delivered, so the gateway does not redeliver it.
func (h *Handler) receiveUpdate(w http.ResponseWriter, r *http.Request) {
	var u domain.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if u.Customer.ID == 0 || u.ChatID == 0 {
		http.Error(w, "customer and chat ids are required", http.StatusBadRequest)
		return
	}

	err := h.Dispatcher.Dispatch(r.Context(), u)
	switch {
	case errors.Is(err, service.ErrUnknownUpdate):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Printf("Error handling %s update from customer %d: %v", u.Kind, u.Customer.ID, err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryLimit(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return n, nil
}

func (h *Handler) recentOrders(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, h.RecentLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	records, err := h.Fulfillment.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type summaryResponse struct {
	Date   string               `json:"date"`
	Count  int                  `json:"count"`
	Sales  string               `json:"sales"`
	Orders []domain.OrderRecord `json:"orders"`
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.Clock().Format(domain.DateLayout)
	} else if _, err := time.Parse(domain.DateLayout, date); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	summary, err := h.Fulfillment.DailySummary(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	orders := summary.Orders
	if orders == nil {
		orders = []domain.OrderRecord{}
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Date:   summary.Date,
		Count:  summary.Count,
		Sales:  domain.FormatPrice(summary.Sales),
		Orders: orders,
	})
}

type pendingResponse struct {
	Orders    []domain.OrderRecord `json:"orders"`
	Remaining int                  `json:"remaining"`
}

func (h *Handler) pendingOrders(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, h.PendingLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	page, err := h.Fulfillment.ListPending(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	orders := page.Orders
	if orders == nil {
		orders = []domain.OrderRecord{}
	}
	writeJSON(w, http.StatusOK, pendingResponse{Orders: orders, Remaining: page.Remaining})
}

type readyResponse struct {
	Order    domain.OrderRecord `json:"order"`
	Notified bool               `json:"notified"`
	Warning  string             `json:"warning,omitempty"`
}

func (h *Handler) markReady(w http.ResponseWriter, r *http.Request) {
	res, err := h.Fulfillment.MarkReady(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, service.ErrMissingOrderID):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, readyResponse{
		Order:    res.Order,
		Notified: res.NotifyErr == nil,
		Warning:  res.Warning(),
	})
}
