package crm

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-crm-records.git/internal/redisx"
)

// Mode is the referential topology the guard runs under.
type Mode string

const (
	// ModeShared: customers and orders share one transactional database.
	// The declared foreign key rejects bad references and cascades deletes.
	ModeShared Mode = "shared"
	// ModeSplit: the stores are separate databases. The guard checks the
	// customer before inserting; the window between check and insert is a
	// documented best-effort gap, not a hard invariant.
	ModeSplit Mode = "split"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeShared, ModeSplit:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown topology %q", ErrInvalidArgument, s)
}

// CustomerDirectory answers whether a customer id exists, possibly by
// calling the customer service in another process.
type CustomerDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// OrderInserter is the write half of the order store the guard fronts.
type OrderInserter interface {
	Create(ctx context.Context, customerID, productName string, price decimal.Decimal) (Order, error)
}

// Guard keeps Order.customer_id meaningful relative to the customer store.
type Guard struct {
	Mode      Mode
	Orders    OrderInserter
	Directory CustomerDirectory // split mode only
	Redis     *redis.Client     // optional positive-lookup cache
}

// CreateOrder validates the price, verifies the customer reference per the
// configured mode and inserts the order.
func (g *Guard) CreateOrder(ctx context.Context, customerID, productName string, price decimal.Decimal) (Order, error) {
	if price.Sign() <= 0 {
		return Order{}, fmt.Errorf("%w: price must be positive", ErrConstraintViolation)
	}
	if g.Mode == ModeSplit {
		ok, err := g.customerExists(ctx, customerID)
		if err != nil {
			return Order{}, err
		}
		if !ok {
			return Order{}, fmt.Errorf("%w: customer %s", ErrReferenceNotFound, customerID)
		}
	}
	// shared mode: the fk_customer constraint rejects a dangling reference
	// and classify() turns it into the reference-not-found category
	return g.Orders.Create(ctx, customerID, productName, price)
}

func (g *Guard) customerExists(ctx context.Context, id string) (bool, error) {
	key := fmt.Sprintf(redisx.KeyCustomerExists, id)
	if g.Redis != nil {
		if ok, _ := redisx.Exists(ctx, g.Redis, key); ok {
			return true, nil
		}
	}
	ok, err := g.Directory.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if ok && g.Redis != nil {
		// only positive hits are cached; a short TTL keeps the orphan
		// window close to the uncached race
		_ = g.Redis.Set(ctx, key, "1", redisx.TTLCustomerExists).Err()
	}
	return ok, nil
}
