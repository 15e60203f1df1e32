package crmclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-crm-records.git/internal/crm"
	"github.com/ariefcatur/go-crm-records.git/internal/httpx"
)

type OrderClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewOrderClient(baseURL string) *OrderClient {
	return &OrderClient{BaseURL: baseURL, HTTP: defaultHTTP()}
}

func (c *OrderClient) Create(ctx context.Context, customerID, productName string, price decimal.Decimal) (crm.Order, error) {
	var out crm.Order
	err := doJSON(ctx, c.HTTP, http.MethodPost, c.BaseURL+"/orders",
		httpx.CreateOrderReq{CustomerID: customerID, ProductName: productName, Price: price}, &out)
	return out, err
}

func (c *OrderClient) ListByCustomer(ctx context.Context, customerID string) ([]crm.Order, error) {
	var out []crm.Order
	err := doJSON(ctx, c.HTTP, http.MethodGet,
		c.BaseURL+"/orders/customer/"+url.PathEscape(customerID), nil, &out)
	return out, err
}

func (c *OrderClient) List(ctx context.Context, page, limit int) ([]crm.Order, int, error) {
	var out httpx.ListOrdersResp
	u := fmt.Sprintf("%s/orders?page=%d&limit=%d", c.BaseURL, page, limit)
	if err := doJSON(ctx, c.HTTP, http.MethodGet, u, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Orders, out.Total, nil
}

func (c *OrderClient) Delete(ctx context.Context, id string) (bool, error) {
	var out httpx.DeleteResp
	err := doJSON(ctx, c.HTTP, http.MethodDelete, c.BaseURL+"/orders/"+url.PathEscape(id), nil, &out)
	return out.Success, err
}
