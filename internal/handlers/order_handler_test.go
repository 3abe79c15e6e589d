package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grubhouse/storefront-api/internal/auth"
	"github.com/grubhouse/storefront-api/internal/middleware"
	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/service"
)

// orderTestServer wires the order routes behind real JWT middleware, the way
// main does, so the handler's claims lookup is exercised end to end.
func orderTestServer(t *testing.T) (*chi.Mux, *fakeProductRepo, *fakeOrderRepo, string, string) {
	t.Helper()

	productRepo := catalogFixture(t)
	orderRepo := &fakeOrderRepo{}
	svc := service.NewOrderService(productRepo, orderRepo, &fakeDealValidator{}, testLogger())
	h := NewOrderHandler(svc, testLogger())

	manager := auth.NewManager("test-secret")
	userID := primitive.NewObjectID().Hex()
	token, err := manager.GenerateToken(userID, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(manager))
		r.Post("/api/orders", h.CreateOrder)
		r.Get("/api/orders", h.ListOrders)
		r.Get("/api/orders/{orderId}", h.GetOrder)
	})

	return r, productRepo, orderRepo, userID, token
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	router, productRepo, _, _, token := orderTestServer(t)
	burgerID := productRepo.products[0].ID.Hex()

	t.Run("success", func(t *testing.T) {
		body := fmt.Sprintf(`{
			"items":[{"productId":"%s","quantity":1,"price":229,"customization":{"size":"large"}}],
			"orderType":"takeaway",
			"paymentMethod":"card"
		}`, burgerID)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var resp struct {
			Message string       `json:"message"`
			Order   models.Order `json:"order"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if resp.Message != "Order created successfully" {
			t.Errorf("message = %q", resp.Message)
		}
		if resp.Order.Subtotal != 229 {
			t.Errorf("subtotal = %v, want 229", resp.Order.Subtotal)
		}
		if math.Abs(resp.Order.Total-240.45) > 1e-9 {
			t.Errorf("total = %v, want 240.45", resp.Order.Total)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("empty items", func(t *testing.T) {
		body := `{"items":[],"orderType":"takeaway","paymentMethod":"card"}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		body := fmt.Sprintf(`{
			"items":[{"productId":"%s","quantity":1,"price":199}],
			"orderType":"takeaway",
			"paymentMethod":"card"
		}`, primitive.NewObjectID().Hex())
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{not json`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestOrderHandler_ListAndGetOrders(t *testing.T) {
	router, productRepo, orderRepo, _, token := orderTestServer(t)
	burgerID := productRepo.products[0].ID.Hex()

	// Place one order through the API first.
	body := fmt.Sprintf(`{
		"items":[{"productId":"%s","quantity":2,"price":199}],
		"orderType":"takeaway",
		"paymentMethod":"upi"
	}`, burgerID)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("placing order: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp struct {
			Orders []models.Order `json:"orders"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if len(resp.Orders) != 1 {
			t.Errorf("got %d orders, want 1", len(resp.Orders))
		}
	})

	t.Run("get by id", func(t *testing.T) {
		orderID := orderRepo.orders[0].ID.Hex()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp struct {
			Order models.Order `json:"order"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if resp.Order.ID.Hex() != orderID {
			t.Errorf("order id = %q, want %q", resp.Order.ID.Hex(), orderID)
		}
	})

	t.Run("unknown order is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+primitive.NewObjectID().Hex(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("another user's token sees nothing", func(t *testing.T) {
		otherToken, err := auth.NewManager("test-secret").GenerateToken(primitive.NewObjectID().Hex(), "bob@example.com")
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		orderID := orderRepo.orders[0].ID.Hex()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID, nil)
		req.Header.Set("Authorization", "Bearer "+otherToken)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}
