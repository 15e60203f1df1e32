package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-crm-records.git/internal/crm"
)

// OrderCreator is the guard's write path.
type OrderCreator interface {
	CreateOrder(ctx context.Context, customerID, productName string, price decimal.Decimal) (crm.Order, error)
}

// OrderStore is the read/delete slice of the order record store.
type OrderStore interface {
	ListByCustomer(ctx context.Context, customerID string) ([]crm.Order, error)
	List(ctx context.Context, page, limit int) ([]crm.Order, int, error)
	Delete(ctx context.Context, id string) error
}

type OrdersHandler struct {
	Guard OrderCreator
	Store OrderStore
	Log   *zap.Logger
}

type CreateOrderReq struct {
	CustomerID  string          `json:"customer_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
}

type ListOrdersResp struct {
	Orders []crm.Order `json:"orders"`
	Total  int         `json:"total"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/customer/{customer_id}", h.listByCustomer)
	r.Delete("/orders/{id}", h.delete)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, fmt.Errorf("%w: invalid json", crm.ErrInvalidArgument))
		return
	}
	if req.CustomerID == "" || req.ProductName == "" {
		WriteError(w, fmt.Errorf("%w: customer_id and product_name are required", crm.ErrInvalidArgument))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Guard.CreateOrder(ctx, req.CustomerID, req.ProductName, req.Price)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) listByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customer_id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Store.ListByCustomer(ctx, customerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if len(out) == 0 {
		WriteError(w, fmt.Errorf("%w: no orders for customer %s", crm.ErrNotFound, customerID))
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	page, limit, err := PageParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, total, err := h.Store.List(ctx, page, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ListOrdersResp{Orders: orders, Total: total})
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, DeleteResp{Success: true})
}
