package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-crm-records.git/internal/crm"
	kafkax "github.com/ariefcatur/go-crm-records.git/internal/kafka"
)

// CustomerStore is what the handler needs from the record store.
type CustomerStore interface {
	Create(ctx context.Context, name, email string) (crm.Customer, error)
	Get(ctx context.Context, id string) (crm.Customer, error)
	Update(ctx context.Context, id, name, email string) (crm.Customer, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]crm.Customer, int, error)
}

type CustomersHandler struct {
	Store    CustomerStore
	Producer *kafkax.Producer // split mode: publishes customer.deleted; nil otherwise
	Service  string
	Log      *zap.Logger
}

type CustomerReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ListCustomersResp struct {
	Customers []crm.Customer `json:"customers"`
	Total     int            `json:"total"`
}

type DeleteResp struct {
	Success bool `json:"success"`
}

func (h *CustomersHandler) Register(r *chi.Mux) {
	r.Post("/customers", h.create)
	r.Get("/customers", h.list)
	r.Get("/customers/{id}", h.get)
	r.Put("/customers/{id}", h.update)
	r.Delete("/customers/{id}", h.delete)
}

func (h *CustomersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, fmt.Errorf("%w: invalid json", crm.ErrInvalidArgument))
		return
	}
	if req.Name == "" || req.Email == "" {
		WriteError(w, fmt.Errorf("%w: name and email are required", crm.ErrInvalidArgument))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Store.Create(ctx, req.Name, req.Email)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, c)
}

func (h *CustomersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req CustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, fmt.Errorf("%w: invalid json", crm.ErrInvalidArgument))
		return
	}
	if req.Name == "" || req.Email == "" {
		WriteError(w, fmt.Errorf("%w: name and email are required", crm.ErrInvalidArgument))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Store.Update(ctx, chi.URLParam(r, "id"), req.Name, req.Email)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		WriteError(w, err)
		return
	}

	// split mode: tell the order service so it can drop dependent orders.
	// In shared mode the foreign key already cascaded and Producer is nil.
	if h.Producer != nil {
		ev := crm.Envelope{
			EventID:       uuid.NewString(),
			EventType:     crm.EventCustomerDeleted,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      h.Service,
			TraceID:       middleware.GetReqID(r.Context()),
			CorrelationID: id,
			Payload:       kafkax.MustMarshal(crm.CustomerDeletedPayload{CustomerID: id}),
		}
		h.Producer.Publish(crm.PartitionKey(id), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(crm.EventCustomerDeleted)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}

	WriteJSON(w, http.StatusOK, DeleteResp{Success: true})
}

func (h *CustomersHandler) list(w http.ResponseWriter, r *http.Request) {
	page, limit, err := PageParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	customers, total, err := h.Store.List(ctx, page, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ListCustomersResp{Customers: customers, Total: total})
}
