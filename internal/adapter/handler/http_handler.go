package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
	"github.com/gs-sudheesh/project-shoplite/internal/core/service"
)

type HTTPHandler struct {
	orders *service.OrderService
	logger *zap.Logger
}

type placeOrderHTTPRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func NewHTTPHandler(orders *service.OrderService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{orders: orders, logger: logger}
}

// PlaceOrder maps the placement outcome onto HTTP: a placed order returns 200
// with the event payload, a rejection returns 400 with the reason. Channel or
// store faults surface as 500 and never leak details to the caller.
func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req placeOrderHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.OrderRejected{Reason: "invalid request body"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, domain.OrderRejected{Reason: "productId is required"})
		return
	}

	ev, err := h.orders.Place(r.Context(), service.PlaceOrderRequest{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.logger.Error("order placement failed",
			zap.Error(err),
			zap.String("product_id", req.ProductID),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}

	switch e := ev.(type) {
	case domain.OrderPlaced:
		writeJSON(w, http.StatusOK, e)
	case domain.OrderRejected:
		writeJSON(w, http.StatusBadRequest, e)
	}
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
