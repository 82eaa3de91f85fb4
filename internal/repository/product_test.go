package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products domain.Products
	err      error
	calls    int
	sessions []session.Session
}

func (f *fakeSource) ListProducts(ctx context.Context, sess session.Session) (domain.Products, error) {
	f.calls++
	f.sessions = append(f.sessions, sess)
	if f.err != nil {
		return domain.Products{}, f.err
	}
	return f.products, nil
}

func TestProductStoreRefresh(t *testing.T) {
	src := &fakeSource{products: domain.Products{
		{ID: 1, Name: "Sensor A", Quantity: 2},
		{ID: 2, Name: "Relay", Quantity: 50},
	}}
	s := NewProductStore(src, session.WithToken("tok"), hclog.NewNullLogger())

	assert.False(t, s.Loaded())
	assert.Empty(t, s.Products())

	require.NoError(t, s.Refresh(context.Background()))
	assert.True(t, s.Loaded())
	assert.Len(t, s.Products(), 2)
	assert.Equal(t, session.WithToken("tok"), src.sessions[0])

	q, ok := s.Available(2)
	assert.True(t, ok)
	assert.Equal(t, 50, q)

	_, ok = s.Available(9)
	assert.False(t, ok)

	_, err := s.GetByID(9)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductStoreKeepsLastKnownOnFailure(t *testing.T) {
	src := &fakeSource{products: domain.Products{{ID: 1, Name: "Sensor A", Quantity: 2}}}
	s := NewProductStore(src, session.WithToken("tok"), hclog.NewNullLogger())
	require.NoError(t, s.Refresh(context.Background()))

	src.err = errors.New("connection refused")
	assert.Error(t, s.Refresh(context.Background()))

	ps := s.Products()
	require.Len(t, ps, 1)
	assert.Equal(t, "Sensor A", ps[0].Name)
}

func TestProductStoreReturnsCopies(t *testing.T) {
	src := &fakeSource{products: domain.Products{{ID: 1, Quantity: 2}}}
	s := NewProductStore(src, session.WithToken("tok"), hclog.NewNullLogger())
	require.NoError(t, s.Refresh(context.Background()))

	ps := s.Products()
	ps[0].Quantity = 99

	q, _ := s.Available(1)
	assert.Equal(t, 2, q)
}
