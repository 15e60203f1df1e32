package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	known map[string]bool
	err   error
	calls int
}

func (d *fakeDirectory) Exists(ctx context.Context, id string) (bool, error) {
	d.calls++
	if d.err != nil {
		return false, d.err
	}
	return d.known[id], nil
}

type fakeInserter struct {
	created []Order
	err     error
}

func (f *fakeInserter) Create(ctx context.Context, customerID, productName string, price decimal.Decimal) (Order, error) {
	if f.err != nil {
		return Order{}, f.err
	}
	o := Order{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		ProductName: productName,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}
	f.created = append(f.created, o)
	return o, nil
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"shared", "split"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}
	_, err := ParseMode("federated")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGuardRejectsNonPositivePrice(t *testing.T) {
	dir := &fakeDirectory{}
	g := &Guard{Mode: ModeSplit, Directory: dir, Orders: &fakeInserter{}}

	for _, price := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-3)} {
		_, err := g.CreateOrder(context.Background(), "c1", "Widget", price)
		assert.ErrorIs(t, err, ErrConstraintViolation)
	}
	// price is checked before the reference, so the directory is never hit
	assert.Zero(t, dir.calls)
}

func TestGuardSplitModeChecksReference(t *testing.T) {
	dir := &fakeDirectory{known: map[string]bool{"alice": true}}
	ins := &fakeInserter{}
	g := &Guard{Mode: ModeSplit, Directory: dir, Orders: ins}

	o, err := g.CreateOrder(context.Background(), "alice", "Widget", decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	assert.Equal(t, "alice", o.CustomerID)
	assert.NotEmpty(t, o.ID)
	require.Len(t, ins.created, 1)

	_, err = g.CreateOrder(context.Background(), "ghost", "Widget", decimal.RequireFromString("9.99"))
	assert.ErrorIs(t, err, ErrReferenceNotFound)
	assert.Len(t, ins.created, 1)
}

func TestGuardSplitModePropagatesDirectoryFailure(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("customer service down")}
	g := &Guard{Mode: ModeSplit, Directory: dir, Orders: &fakeInserter{}}

	_, err := g.CreateOrder(context.Background(), "alice", "Widget", decimal.NewFromInt(5))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrReferenceNotFound)
}

func TestGuardSharedModeSkipsDirectory(t *testing.T) {
	ins := &fakeInserter{}
	g := &Guard{Mode: ModeShared, Orders: ins}

	_, err := g.CreateOrder(context.Background(), "alice", "Widget", decimal.NewFromInt(5))
	require.NoError(t, err)
	require.Len(t, ins.created, 1)
}
