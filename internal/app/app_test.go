package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"burgerreview/internal/cache"
	"burgerreview/internal/event"
	"burgerreview/internal/logger"
	"burgerreview/internal/model"
	"burgerreview/internal/repository"
	"burgerreview/internal/session"
	"burgerreview/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.ReviewCreated
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt event.ReviewCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type testEnv struct {
	db        *gorm.DB
	redis     *miniredis.Miniredis
	store     *repository.Store
	cache     *cache.ListingCache
	publisher *recordingPublisher
	auth      *AuthService
	catalog   *CatalogService
	reviews   *ReviewService
	ratings   *RatingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	client, mr := testutil.NewRedis(t)
	log := logger.Nop()

	store := repository.NewStore(db)
	listings := cache.NewListingCache(client, time.Minute)
	publisher := &recordingPublisher{}

	return &testEnv{
		db:        db,
		redis:     mr,
		store:     store,
		cache:     listings,
		publisher: publisher,
		auth:      NewAuthService(store, session.NewStore(client, time.Hour), "test-secret", time.Hour, log),
		catalog:   NewCatalogService(store, listings, log),
		reviews:   NewReviewService(store, listings, publisher, log),
		ratings:   NewRatingService(store, listings, log),
	}
}

func (e *testEnv) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

func (e *testEnv) sessionCount() int {
	n := 0
	for _, k := range e.redis.Keys() {
		if strings.HasPrefix(k, "session:") {
			n++
		}
	}
	return n
}

func (e *testEnv) register(t *testing.T, username, email string) *model.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{Username: username, Email: email, Password: "password123"})
	require.NoError(t, err)
	return user
}

func (e *testEnv) seedBurger(t *testing.T, chainName, burgerName string) *model.Burger {
	t.Helper()
	ctx := context.Background()
	chain, err := e.catalog.CreateChain(ctx, CreateChainInput{Name: chainName})
	require.NoError(t, err)
	burger, err := e.catalog.CreateBurger(ctx, CreateBurgerInput{Name: burgerName, ChainID: chain.ID})
	require.NoError(t, err)
	return burger
}

func strPtr(s string) *string { return &s }

// interleavingCache runs beforeFill once, after the service has queried the
// database and before it writes the result to the cache.
type interleavingCache struct {
	*cache.ListingCache
	beforeFill func()
	once       sync.Once
}

func (c *interleavingCache) fire() {
	if c.beforeFill != nil {
		c.once.Do(c.beforeFill)
	}
}

func (c *interleavingCache) SetBurgers(ctx context.Context, version int64, burgers []model.Burger) error {
	c.fire()
	return c.ListingCache.SetBurgers(ctx, version, burgers)
}

func (c *interleavingCache) SetReviews(ctx context.Context, burgerID uint, version int64, reviews []model.Review) error {
	c.fire()
	return c.ListingCache.SetReviews(ctx, burgerID, version, reviews)
}
