package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type OrderRepo struct{ DB *pgxpool.Pool }

func (r *OrderRepo) Create(ctx context.Context, customerID, productName string, price decimal.Decimal) (Order, error) {
	o := Order{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		ProductName: productName,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders(id, customer_id, product_name, price, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.CustomerID, o.ProductName, o.Price, o.CreatedAt,
	)
	if err != nil {
		return Order{}, classify(err)
	}
	return o, nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, customer_id, product_name, price, created_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.CustomerID, &o.ProductName, &o.Price, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if err != nil {
		return Order{}, classify(err)
	}
	return o, nil
}

// ListByCustomer returns every order for one customer, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, customer_id, product_name, price, created_at
		FROM orders WHERE customer_id=$1
		ORDER BY created_at DESC, id DESC`, customerID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepo) List(ctx context.Context, page, limit int) ([]Order, int, error) {
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, customer_id, product_name, price, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, classify(err)
	}
	defer rows.Close()

	out, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}
	return out, total, nil
}

// Delete reports success even when the row was already gone.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id); err != nil {
		return classify(err)
	}
	return nil
}

// DeleteByCustomer removes every order referencing the customer and returns
// how many rows went. Used by the split-mode reconciler.
func (r *OrderRepo) DeleteByCustomer(ctx context.Context, customerID string) (int64, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE customer_id=$1`, customerID)
	if err != nil {
		return 0, classify(err)
	}
	return ct.RowsAffected(), nil
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.ProductName, &o.Price, &o.CreatedAt); err != nil {
			return nil, classify(err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}
