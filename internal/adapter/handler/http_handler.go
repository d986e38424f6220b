package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"anonmarket/internal/core/domain"
	"anonmarket/internal/core/service"
)

// Marketplace is the four-operation surface the chat layer consumes; the
// HTTP adapter exposes exactly the same four, nothing more.
type Marketplace interface {
	ListItem(ctx context.Context, sellerID int64, description string, price float64) (int64, error)
	PurchaseItem(ctx context.Context, buyerID, itemID int64, location string) (*service.Receipt, error)
	BrowseCatalog(ctx context.Context) ([]domain.Item, error)
	ProfileStats(ctx context.Context, userID int64) (*domain.Profile, error)
}

type HTTPHandler struct {
	market Marketplace
	log    logrus.FieldLogger
}

func NewHTTPHandler(market Marketplace, log logrus.FieldLogger) *HTTPHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HTTPHandler{market: market, log: log}
}

// Router builds the adapter's route table.
func (h *HTTPHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogging(h.log))
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/items", h.ListItem).Methods(http.MethodPost)
	r.HandleFunc("/api/items", h.BrowseCatalog).Methods(http.MethodGet)
	r.HandleFunc("/api/purchase", h.Purchase).Methods(http.MethodPost)
	r.HandleFunc("/api/profile/{user_id}", h.ProfileStats).Methods(http.MethodGet)
	return r
}

type listItemRequest struct {
	SellerID    int64   `json:"seller_id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type listItemResponse struct {
	ItemID int64 `json:"item_id"`
}

type purchaseRequest struct {
	BuyerID  int64  `json:"buyer_id"`
	ItemID   int64  `json:"item_id"`
	Location string `json:"location"`
}

type purchaseResponse struct {
	OrderID     int64   `json:"order_id"`
	ItemID      int64   `json:"item_id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

type catalogItemResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type profileResponse struct {
	ItemsSold   int `json:"items_sold"`
	ItemsBought int `json:"items_bought"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) ListItem(w http.ResponseWriter, r *http.Request) {
	var req listItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SellerID <= 0 {
		writeError(w, http.StatusBadRequest, "seller_id is required")
		return
	}

	itemID, err := h.market.ListItem(r.Context(), req.SellerID, req.Description, req.Price)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, listItemResponse{ItemID: itemID})
}

func (h *HTTPHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BuyerID <= 0 || req.ItemID <= 0 {
		writeError(w, http.StatusBadRequest, "buyer_id and item_id are required")
		return
	}

	receipt, err := h.market.PurchaseItem(r.Context(), req.BuyerID, req.ItemID, req.Location)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, purchaseResponse{
		OrderID:     receipt.OrderID,
		ItemID:      receipt.ItemID,
		Description: receipt.Description,
		Price:       receipt.Price,
		Status:      string(domain.OrderStatusPendingPayment),
	})
}

func (h *HTTPHandler) BrowseCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.market.BrowseCatalog(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]catalogItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, catalogItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Price:       it.Price,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) ProfileStats(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["user_id"], 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	stats, err := h.market.ProfileStats(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ItemsSold:   stats.ItemsSold,
		ItemsBought: stats.ItemsBought,
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "description must be non-empty and price a positive number")
	case errors.Is(err, domain.ErrItemUnavailable):
		writeError(w, http.StatusGone, "item unavailable")
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("storage failure")
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
