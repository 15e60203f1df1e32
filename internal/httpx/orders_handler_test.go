package httpx

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-crm-records.git/internal/crm"
)

type fakeDirectory struct {
	known map[string]bool
	calls int
}

func (d *fakeDirectory) Exists(ctx context.Context, id string) (bool, error) {
	d.calls++
	return d.known[id], nil
}

type fakeOrderStore struct {
	orders    []crm.Order
	listCalls int
}

func (s *fakeOrderStore) Create(ctx context.Context, customerID, productName string, price decimal.Decimal) (crm.Order, error) {
	o := crm.Order{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		ProductName: productName,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}
	s.orders = append(s.orders, o)
	return o, nil
}

func (s *fakeOrderStore) ListByCustomer(ctx context.Context, customerID string) ([]crm.Order, error) {
	out := []crm.Order{}
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) List(ctx context.Context, page, limit int) ([]crm.Order, int, error) {
	s.listCalls++
	if page <= 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("%w: page and limit must be positive", crm.ErrInvalidArgument)
	}
	return s.orders, len(s.orders), nil
}

func (s *fakeOrderStore) Delete(ctx context.Context, id string) error {
	kept := s.orders[:0]
	for _, o := range s.orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	s.orders = kept
	return nil
}

func ordersRouter(store *fakeOrderStore, dir *fakeDirectory) *chi.Mux {
	guard := &crm.Guard{Mode: crm.ModeSplit, Directory: dir, Orders: store}
	h := &OrdersHandler{Guard: guard, Store: store, Log: zap.NewNop()}
	r := NewRouter(0, zap.NewNop())
	h.Register(r)
	return r
}

func TestCreateOrder(t *testing.T) {
	r := ordersRouter(&fakeOrderStore{}, &fakeDirectory{known: map[string]bool{"alice": true}})

	w := doRequest(t, r, http.MethodPost, "/orders",
		`{"customer_id":"alice","product_name":"Widget","price":9.99}`)
	require.Equal(t, http.StatusCreated, w.Code)

	o := decodeBody[crm.Order](t, w)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "alice", o.CustomerID)
	assert.Equal(t, "Widget", o.ProductName)
	assert.True(t, o.Price.Equal(decimal.RequireFromString("9.99")))
	assert.False(t, o.CreatedAt.IsZero())
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	r := ordersRouter(&fakeOrderStore{}, &fakeDirectory{})

	w := doRequest(t, r, http.MethodPost, "/orders",
		`{"customer_id":"ghost","product_name":"Widget","price":9.99}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeReferenceNotFound, decodeBody[ErrorBody](t, w).Code)
}

func TestCreateOrderNonPositivePrice(t *testing.T) {
	dir := &fakeDirectory{known: map[string]bool{"alice": true}}
	r := ordersRouter(&fakeOrderStore{}, dir)

	for _, body := range []string{
		`{"customer_id":"alice","product_name":"Widget","price":0}`,
		`{"customer_id":"alice","product_name":"Widget","price":-1.50}`,
	} {
		w := doRequest(t, r, http.MethodPost, "/orders", body)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, CodeConstraintViolation, decodeBody[ErrorBody](t, w).Code)
	}
	// price fails before the reference check
	assert.Zero(t, dir.calls)
}

func TestCreateOrderMissingFields(t *testing.T) {
	r := ordersRouter(&fakeOrderStore{}, &fakeDirectory{})

	w := doRequest(t, r, http.MethodPost, "/orders", `{"product_name":"Widget","price":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidArgument, decodeBody[ErrorBody](t, w).Code)
}

func TestCustomerOrders(t *testing.T) {
	store := &fakeOrderStore{}
	r := ordersRouter(store, &fakeDirectory{known: map[string]bool{"alice": true}})

	doRequest(t, r, http.MethodPost, "/orders", `{"customer_id":"alice","product_name":"Widget","price":9.99}`)
	doRequest(t, r, http.MethodPost, "/orders", `{"customer_id":"alice","product_name":"Gadget","price":5}`)

	w := doRequest(t, r, http.MethodGet, "/orders/customer/alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]crm.Order](t, w), 2)
}

func TestCustomerOrdersNoneFound(t *testing.T) {
	r := ordersRouter(&fakeOrderStore{}, &fakeDirectory{})

	w := doRequest(t, r, http.MethodGet, "/orders/customer/alice", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, decodeBody[ErrorBody](t, w).Code)
}

func TestListOrders(t *testing.T) {
	store := &fakeOrderStore{}
	r := ordersRouter(store, &fakeDirectory{known: map[string]bool{"alice": true}})
	doRequest(t, r, http.MethodPost, "/orders", `{"customer_id":"alice","product_name":"Widget","price":9.99}`)

	w := doRequest(t, r, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[ListOrdersResp](t, w)
	assert.Len(t, resp.Orders, 1)
	assert.Equal(t, 1, resp.Total)
}

func TestDeleteOrderIsIdempotent(t *testing.T) {
	r := ordersRouter(&fakeOrderStore{}, &fakeDirectory{})

	w := doRequest(t, r, http.MethodDelete, "/orders/ghost", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeBody[DeleteResp](t, w).Success)
}
