package crmclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ariefcatur/go-crm-records.git/internal/crm"
	"github.com/ariefcatur/go-crm-records.git/internal/httpx"
)

type CustomerClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewCustomerClient(baseURL string) *CustomerClient {
	return &CustomerClient{BaseURL: baseURL, HTTP: defaultHTTP()}
}

func (c *CustomerClient) Create(ctx context.Context, name, email string) (crm.Customer, error) {
	var out crm.Customer
	err := doJSON(ctx, c.HTTP, http.MethodPost, c.BaseURL+"/customers",
		httpx.CustomerReq{Name: name, Email: email}, &out)
	return out, err
}

func (c *CustomerClient) Get(ctx context.Context, id string) (crm.Customer, error) {
	var out crm.Customer
	err := doJSON(ctx, c.HTTP, http.MethodGet, c.BaseURL+"/customers/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *CustomerClient) Update(ctx context.Context, id, name, email string) (crm.Customer, error) {
	var out crm.Customer
	err := doJSON(ctx, c.HTTP, http.MethodPut, c.BaseURL+"/customers/"+url.PathEscape(id),
		httpx.CustomerReq{Name: name, Email: email}, &out)
	return out, err
}

func (c *CustomerClient) Delete(ctx context.Context, id string) (bool, error) {
	var out httpx.DeleteResp
	err := doJSON(ctx, c.HTTP, http.MethodDelete, c.BaseURL+"/customers/"+url.PathEscape(id), nil, &out)
	return out.Success, err
}

func (c *CustomerClient) List(ctx context.Context, page, limit int) ([]crm.Customer, int, error) {
	var out httpx.ListCustomersResp
	u := fmt.Sprintf("%s/customers?page=%d&limit=%d", c.BaseURL, page, limit)
	if err := doJSON(ctx, c.HTTP, http.MethodGet, u, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Customers, out.Total, nil
}

// Exists implements crm.CustomerDirectory for the split-mode guard.
func (c *CustomerClient) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.Get(ctx, id)
	if errors.Is(err, crm.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
