package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kindones/storefront/internal/cache"
	"github.com/kindones/storefront/internal/dbtest"
	"github.com/kindones/storefront/internal/identity"
	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/notify"
	"github.com/kindones/storefront/internal/repo"
	"github.com/kindones/storefront/pkg/hash"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Confirmation
}

func (n *recordingNotifier) Enqueue(c notify.Confirmation) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, c)
	return true
}

type published struct {
	key   string
	event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: key, event: event})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type memCache struct {
	gs          []models.Governorate
	hit         bool
	invalidated int
}

func (c *memCache) GetActive(context.Context) ([]models.Governorate, error) {
	if !c.hit {
		return nil, cache.ErrMiss
	}
	return c.gs, nil
}

func (c *memCache) SetActive(_ context.Context, gs []models.Governorate) error {
	c.gs, c.hit = gs, true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.gs, c.hit = nil, false
	c.invalidated++
	return nil
}

type fixture struct {
	repo      *repo.GormRepo
	orders    *OrderService
	notifier  *recordingNotifier
	publisher *recordingPublisher

	a, b *models.MenuItem
	g1   *models.Governorate
	u1   *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := &repo.GormRepo{DB: dbtest.Open(t)}
	ctx := context.Background()

	f := &fixture{
		repo:      r,
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	f.orders = &OrderService{
		Repo:     r,
		Identity: &identity.Resolver{Users: r, Hasher: hash.Bcrypt{Cost: bcrypt.MinCost}},
		Notifier: f.notifier,
		Events:   f.publisher,
	}

	f.a = &models.MenuItem{Slug: "a", Name: "Classic", Price: decimal.RequireFromString("1.400"), Active: true}
	f.b = &models.MenuItem{Slug: "b", Name: "Fries", Price: decimal.RequireFromString("1.600"), Active: true}
	require.NoError(t, r.CreateMenuItem(ctx, f.a, nil))
	require.NoError(t, r.CreateMenuItem(ctx, f.b, nil))

	f.g1 = &models.Governorate{Name: "Hawalli", DeliveryFee: decimal.RequireFromString("1.000"), Active: true}
	require.NoError(t, r.CreateGovernorate(ctx, f.g1))

	name := "Existing"
	f.u1 = &models.User{Email: "u1@example.com", Name: &name}
	require.NoError(t, r.CreateUser(ctx, f.u1))
	return f
}

func (f *fixture) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.repo.DB.Model(model).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }
