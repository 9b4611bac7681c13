package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burgerreview/internal/logger"
	"burgerreview/internal/model"
)

func TestCatalogService_CreateChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.catalog.CreateChain(ctx, CreateChainInput{Name: " BurgerCo ", Location: strPtr("Amsterdam")})
	require.NoError(t, err)
	assert.NotZero(t, chain.ID)
	assert.Equal(t, "BurgerCo", chain.Name)
	require.NotNil(t, chain.Location)
	assert.Equal(t, "Amsterdam", *chain.Location)

	blank, err := env.catalog.CreateChain(ctx, CreateChainInput{Name: "Patty Palace", Location: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, blank.Location)

	_, err = env.catalog.CreateChain(ctx, CreateChainInput{Name: "BurgerCo"})
	assert.ErrorIs(t, err, ErrChainExists)

	_, err = env.catalog.CreateChain(ctx, CreateChainInput{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, int64(2), env.count(t, &model.Chain{}))
}

func TestCatalogService_ListChainsIsStableAndFresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	empty, err := env.catalog.ListChains(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = env.catalog.CreateChain(ctx, CreateChainInput{Name: "BurgerCo"})
	require.NoError(t, err)
	_, err = env.catalog.CreateChain(ctx, CreateChainInput{Name: "Patty Palace"})
	require.NoError(t, err)

	first, err := env.catalog.ListChains(ctx)
	require.NoError(t, err)
	second, err := env.catalog.ListChains(ctx)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, "BurgerCo", first[0].Name)
	assert.Equal(t, "Patty Palace", first[1].Name)
}

func TestCatalogService_CreateBurger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.catalog.CreateChain(ctx, CreateChainInput{Name: "BurgerCo"})
	require.NoError(t, err)

	burger, err := env.catalog.CreateBurger(ctx, CreateBurgerInput{Name: "Classic", ChainID: chain.ID, Description: strPtr("beef, cheese")})
	require.NoError(t, err)
	assert.NotZero(t, burger.ID)
	require.NotNil(t, burger.Chain)
	assert.Equal(t, "BurgerCo", burger.Chain.Name)

	t.Run("missing chain", func(t *testing.T) {
		_, err := env.catalog.CreateBurger(ctx, CreateBurgerInput{Name: "Ghost", ChainID: chain.ID + 100})
		assert.ErrorIs(t, err, ErrChainNotFound)
		assert.Equal(t, int64(1), env.count(t, &model.Burger{}))
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := env.catalog.CreateBurger(ctx, CreateBurgerInput{Name: "", ChainID: chain.ID})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = env.catalog.CreateBurger(ctx, CreateBurgerInput{Name: "NoChain"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCatalogService_ListBurgersSeesNewBurger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	classic := env.seedBurger(t, "BurgerCo", "Classic")

	first, err := env.catalog.ListBurgers(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.NotNil(t, first[0].Chain)
	assert.Equal(t, "BurgerCo", first[0].Chain.Name)

	again, err := env.catalog.ListBurgers(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	_, err = env.catalog.CreateBurger(ctx, CreateBurgerInput{Name: "Deluxe", ChainID: classic.ChainID})
	require.NoError(t, err)

	after, err := env.catalog.ListBurgers(ctx)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, "Deluxe", after[1].Name)
}

func TestCatalogService_GetBurger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	classic := env.seedBurger(t, "BurgerCo", "Classic")

	got, err := env.catalog.GetBurger(ctx, classic.ID)
	require.NoError(t, err)
	assert.Equal(t, "Classic", got.Name)

	_, err = env.catalog.GetBurger(ctx, classic.ID+1)
	assert.ErrorIs(t, err, ErrBurgerNotFound)
}

func TestCatalogService_BurgerCreatedDuringCacheFillIsListed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	classic := env.seedBurger(t, "BurgerCo", "Classic")

	racing := &interleavingCache{ListingCache: env.cache}
	svc := NewCatalogService(env.store, racing, logger.Nop())
	racing.beforeFill = func() {
		_, err := svc.CreateBurger(ctx, CreateBurgerInput{Name: "Deluxe", ChainID: classic.ChainID})
		require.NoError(t, err)
	}

	stale, err := svc.ListBurgers(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	fresh, err := svc.ListBurgers(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "Deluxe", fresh[1].Name)
}
