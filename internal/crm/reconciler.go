package crm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-crm-records.git/internal/kafka"
	"github.com/ariefcatur/go-crm-records.git/internal/redisx"
)

// OrderPurger is the slice of the order store the reconciler needs.
type OrderPurger interface {
	DeleteByCustomer(ctx context.Context, customerID string) (int64, error)
}

// Reconciler is the split-mode cleanup half of the referential guard: it
// consumes customer.deleted events and removes the orders left dangling.
// Deletion stays best-effort and asynchronous; there is no cross-store
// transaction to lean on.
type Reconciler struct {
	Orders OrderPurger
	Redis  *redis.Client // optional event dedup
	Log    *zap.Logger
}

// HandleCustomerDeleted is installed as the consumer handler.
func (r *Reconciler) HandleCustomerDeleted(ctx context.Context, m kafkago.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != EventCustomerDeleted {
		return nil
	}

	if r.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "orders-reconciler", env.EventID)
		if ok, _ := redisx.Exists(ctx, r.Redis, dkey); ok {
			return nil
		}
		_ = r.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[CustomerDeletedPayload](env.Payload)
	if err != nil {
		return err
	}
	if p.CustomerID == "" {
		return nil
	}

	n, err := r.Orders.DeleteByCustomer(ctx, p.CustomerID)
	if err != nil {
		return err
	}
	if n > 0 {
		r.Log.Info("removed orphaned orders",
			zap.String("customer_id", p.CustomerID),
			zap.Int64("orders", n),
		)
	}
	return nil
}
