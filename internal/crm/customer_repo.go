package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepo struct{ DB *pgxpool.Pool }

// Create assigns the id and timestamp server-side; callers never supply them.
func (r *CustomerRepo) Create(ctx context.Context, name, email string) (Customer, error) {
	c := Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO customers(id, name, email, created_at)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Email, c.CreatedAt,
	)
	if err != nil {
		return Customer{}, classify(err)
	}
	return c, nil
}

func (r *CustomerRepo) Get(ctx context.Context, id string) (Customer, error) {
	var c Customer
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, created_at FROM customers WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}
	if err != nil {
		return Customer{}, classify(err)
	}
	return c, nil
}

// Update replaces the mutable fields only; created_at never changes.
func (r *CustomerRepo) Update(ctx context.Context, id, name, email string) (Customer, error) {
	var c Customer
	err := r.DB.QueryRow(ctx, `
		UPDATE customers SET name=$2, email=$3 WHERE id=$1
		RETURNING id, name, email, created_at`,
		id, name, email,
	).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}
	if err != nil {
		return Customer{}, classify(err)
	}
	return c, nil
}

// Delete reports success even when the row was already gone.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id); err != nil {
		return classify(err)
	}
	return nil
}

func (r *CustomerRepo) List(ctx context.Context, page, limit int) ([]Customer, int, error) {
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, name, email, created_at FROM customers
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, classify(err)
	}
	defer rows.Close()

	out := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, 0, classify(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(err)
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}
	return out, total, nil
}

// pageOffset validates 1-indexed pagination before any database access.
func pageOffset(page, limit int) (int, error) {
	if page <= 0 || limit <= 0 {
		return 0, fmt.Errorf("%w: page and limit must be positive", ErrInvalidArgument)
	}
	return (page - 1) * limit, nil
}
