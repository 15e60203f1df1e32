package crm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-crm-records.git/internal/kafka"
)

type fakePurger struct {
	deleted []string
}

func (f *fakePurger) DeleteByCustomer(ctx context.Context, customerID string) (int64, error) {
	f.deleted = append(f.deleted, customerID)
	return 2, nil
}

func customerDeletedMessage(t *testing.T, customerID string) kafkago.Message {
	t.Helper()
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventCustomerDeleted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "crm-customers",
		CorrelationID: customerID,
		Payload:       kafkax.MustMarshal(CustomerDeletedPayload{CustomerID: customerID}),
	}
	return kafkago.Message{Key: PartitionKey(customerID), Value: kafkax.MustMarshal(env)}
}

func TestReconcilerDeletesOrphanedOrders(t *testing.T) {
	purger := &fakePurger{}
	rec := &Reconciler{Orders: purger, Log: zap.NewNop()}

	err := rec.HandleCustomerDeleted(context.Background(), customerDeletedMessage(t, "alice"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, purger.deleted)
}

func TestReconcilerIgnoresOtherEventTypes(t *testing.T) {
	purger := &fakePurger{}
	rec := &Reconciler{Orders: purger, Log: zap.NewNop()}

	env := Envelope{
		EventID:   uuid.NewString(),
		EventType: "CustomerUpdated",
		Payload:   kafkax.MustMarshal(CustomerDeletedPayload{CustomerID: "alice"}),
	}
	err := rec.HandleCustomerDeleted(context.Background(),
		kafkago.Message{Value: kafkax.MustMarshal(env)})
	require.NoError(t, err)
	assert.Empty(t, purger.deleted)
}

func TestReconcilerIgnoresEmptyCustomerID(t *testing.T) {
	purger := &fakePurger{}
	rec := &Reconciler{Orders: purger, Log: zap.NewNop()}

	err := rec.HandleCustomerDeleted(context.Background(), customerDeletedMessage(t, ""))
	require.NoError(t, err)
	assert.Empty(t, purger.deleted)
}

func TestReconcilerRejectsGarbage(t *testing.T) {
	rec := &Reconciler{Orders: &fakePurger{}, Log: zap.NewNop()}
	err := rec.HandleCustomerDeleted(context.Background(), kafkago.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
