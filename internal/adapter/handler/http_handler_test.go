package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/gs-sudheesh/project-shoplite/internal/core/domain"
	"github.com/gs-sudheesh/project-shoplite/internal/core/service"
)

type stubOrderRepo struct {
	mu    sync.Mutex
	saved int
	err   error
}

func (s *stubOrderRepo) Save(ctx context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved++
	return nil
}

type stubPublisher struct{}

func (stubPublisher) PublishPlaced(ctx context.Context, ev domain.OrderPlaced) error {
	return nil
}

func newTestHandler(repo *stubOrderRepo) *HTTPHandler {
	svc := service.NewOrderService(repo, stubPublisher{}, zap.NewNop())
	return NewHTTPHandler(svc, zap.NewNop())
}

func doPlace(t *testing.T, h *HTTPHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.PlaceOrder(w, req)
	return w
}

func TestPlaceOrder_Placed(t *testing.T) {
	repo := &stubOrderRepo{}
	h := newTestHandler(repo)

	w := doPlace(t, h, `{"productId":"P1","quantity":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var placed domain.OrderPlaced
	if err := json.NewDecoder(w.Body).Decode(&placed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if placed.OrderID == "" {
		t.Error("expected non-empty orderId")
	}
	if placed.ProductID != "P1" || placed.Quantity != 5 {
		t.Errorf("unexpected response fields: %+v", placed)
	}
	if repo.saved != 1 {
		t.Errorf("expected 1 saved order, got %d", repo.saved)
	}
}

func TestPlaceOrder_Rejected(t *testing.T) {
	repo := &stubOrderRepo{}
	h := newTestHandler(repo)

	w := doPlace(t, h, `{"productId":"P1","quantity":0}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var rejected domain.OrderRejected
	if err := json.NewDecoder(w.Body).Decode(&rejected); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rejected.Reason != "Quantity must be > 0" {
		t.Errorf("unexpected reason: %s", rejected.Reason)
	}
	if repo.saved != 0 {
		t.Errorf("expected no saved order, got %d", repo.saved)
	}
}

func TestPlaceOrder_InvalidBody(t *testing.T) {
	h := newTestHandler(&stubOrderRepo{})

	w := doPlace(t, h, `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPlaceOrder_MissingProductID(t *testing.T) {
	h := newTestHandler(&stubOrderRepo{})

	w := doPlace(t, h, `{"quantity":1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPlaceOrder_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(&stubOrderRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()
	h.PlaceOrder(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestPlaceOrder_InternalError(t *testing.T) {
	repo := &stubOrderRepo{err: errors.New("order store unavailable")}
	h := newTestHandler(repo)

	w := doPlace(t, h, `{"productId":"P1","quantity":1}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "unavailable") {
		t.Error("internal error details must not leak to the caller")
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(&stubOrderRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
