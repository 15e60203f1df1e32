package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-crm-records.git/internal/crm"
	"github.com/ariefcatur/go-crm-records.git/internal/crmclient"
	"github.com/ariefcatur/go-crm-records.git/internal/httpx"
)

// maxPageLimit is enforced here, at the boundary; the stores themselves
// only reject non-positive values.
const maxPageLimit = 100

// Handler translates authenticated REST calls into record-service calls.
type Handler struct {
	Customers *crmclient.CustomerClient
	Orders    *crmclient.OrderClient
	Auth      *Auth
	Log       *zap.Logger
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(r *chi.Mux) {
	r.Post("/register", h.issueToken)
	r.Post("/login", h.issueToken)

	r.Group(func(r chi.Router) {
		r.Use(h.Auth.Middleware)

		r.Post("/customers", h.createCustomer)
		r.Get("/customers", h.listCustomers)
		r.Get("/customers/{id}", h.getCustomer)
		r.Put("/customers/{id}", h.updateCustomer)
		r.Delete("/customers/{id}", h.deleteCustomer)

		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{customer_id}", h.customerOrders)
		r.Delete("/orders/{id}", h.deleteOrder)
	})
}

// issueToken hands a token to whoever asks; registration and login are the
// same opaque issuance, exactly as the system has always behaved.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		httpx.WriteError(w, fmt.Errorf("%w: username is required", crm.ErrInvalidArgument))
		return
	}
	token, err := h.Auth.Issue(req.Username)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorBody{Error: "token issue failed", Code: httpx.CodeInternal})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TokenResp{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req httpx.CustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, fmt.Errorf("%w: invalid json", crm.ErrInvalidArgument))
		return
	}
	c, err := h.Customers.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.Customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req httpx.CustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, fmt.Errorf("%w: invalid json", crm.ErrInvalidArgument))
		return
	}
	c, err := h.Customers.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Email)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Customers.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.DeleteResp{Success: ok})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	page, limit, err := boundedPageParams(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	customers, total, err := h.Customers.List(r.Context(), page, limit)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.ListCustomersResp{Customers: customers, Total: total})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req httpx.CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, fmt.Errorf("%w: invalid json", crm.ErrInvalidArgument))
		return
	}
	o, err := h.Orders.Create(r.Context(), req.CustomerID, req.ProductName, req.Price)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, limit, err := boundedPageParams(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	orders, total, err := h.Orders.List(r.Context(), page, limit)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.ListOrdersResp{Orders: orders, Total: total})
}

func (h *Handler) customerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListByCustomer(r.Context(), chi.URLParam(r, "customer_id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Orders.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.DeleteResp{Success: ok})
}

func boundedPageParams(r *http.Request) (page, limit int, err error) {
	page, limit, err = httpx.PageParams(r)
	if err != nil {
		return
	}
	if limit > maxPageLimit {
		err = fmt.Errorf("%w: limit must be at most %d", crm.ErrInvalidArgument, maxPageLimit)
	}
	return
}
