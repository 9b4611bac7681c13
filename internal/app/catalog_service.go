package app

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"burgerreview/internal/model"
	"burgerreview/internal/repository"
)

var (
	ErrChainExists    = errors.New("chain already exists")
	ErrChainNotFound  = errors.New("chain not found")
	ErrBurgerNotFound = errors.New("burger not found")
)

type CatalogCache interface {
	GetChains(ctx context.Context) ([]model.Chain, bool, error)
	ChainsVersion(ctx context.Context) (int64, error)
	SetChains(ctx context.Context, version int64, chains []model.Chain) error
	InvalidateChains(ctx context.Context) error
	GetBurgers(ctx context.Context) ([]model.Burger, bool, error)
	BurgersVersion(ctx context.Context) (int64, error)
	SetBurgers(ctx context.Context, version int64, burgers []model.Burger) error
	InvalidateBurgers(ctx context.Context) error
}

type CatalogService struct {
	store *repository.Store
	cache CatalogCache
	log   *zap.SugaredLogger
}

type CreateChainInput struct {
	Name     string
	Location *string
}

type CreateBurgerInput struct {
	Name        string
	ChainID     uint
	Description *string
}

func NewCatalogService(store *repository.Store, cache CatalogCache, log *zap.SugaredLogger) *CatalogService {
	return &CatalogService{store: store, cache: cache, log: log}
}

func (s *CatalogService) CreateChain(ctx context.Context, input CreateChainInput) (*model.Chain, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if err := validate.Var(name, "max=100"); err != nil {
		return nil, ErrInvalidInput
	}
	location := optional(input.Location)
	if location != nil {
		if err := validate.Var(*location, "max=200"); err != nil {
			return nil, ErrInvalidInput
		}
	}

	chain := &model.Chain{Name: name, Location: location}
	if err := s.store.Chains.Create(ctx, chain); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrChainExists
		}
		return nil, err
	}

	if err := s.cache.InvalidateChains(ctx); err != nil {
		s.log.Warnw("invalidate chain cache failed", "error", err)
	}
	return chain, nil
}

func (s *CatalogService) ListChains(ctx context.Context) ([]model.Chain, error) {
	if cached, ok, err := s.cache.GetChains(ctx); err != nil {
		s.log.Warnw("read chain cache failed", "error", err)
	} else if ok {
		return cached, nil
	}

	// the generation is read before the query so a concurrent write wins
	version, versionErr := s.cache.ChainsVersion(ctx)
	chains, err := s.store.Chains.List(ctx)
	if err != nil {
		return nil, err
	}
	if versionErr != nil {
		s.log.Warnw("read chain cache generation failed", "error", versionErr)
	} else if err := s.cache.SetChains(ctx, version, chains); err != nil {
		s.log.Warnw("write chain cache failed", "error", err)
	}
	return chains, nil
}

// CreateBurger checks the chain and inserts the burger in one transaction so
// a burger never points at a missing chain.
func (s *CatalogService) CreateBurger(ctx context.Context, input CreateBurgerInput) (*model.Burger, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.ChainID == 0 {
		return nil, ErrInvalidInput
	}
	if err := validate.Var(name, "max=100"); err != nil {
		return nil, ErrInvalidInput
	}

	burger := &model.Burger{
		Name:        name,
		ChainID:     input.ChainID,
		Description: optional(input.Description),
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		chain, err := tx.Chains.GetByID(ctx, input.ChainID)
		if err != nil {
			return err
		}
		if chain == nil {
			return ErrChainNotFound
		}
		if err := tx.Burgers.Create(ctx, burger); err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrChainNotFound
			}
			return err
		}
		burger.Chain = chain
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateBurgers(ctx); err != nil {
		s.log.Warnw("invalidate burger cache failed", "error", err)
	}
	return burger, nil
}

func (s *CatalogService) ListBurgers(ctx context.Context) ([]model.Burger, error) {
	if cached, ok, err := s.cache.GetBurgers(ctx); err != nil {
		s.log.Warnw("read burger cache failed", "error", err)
	} else if ok {
		return cached, nil
	}

	version, versionErr := s.cache.BurgersVersion(ctx)
	burgers, err := s.store.Burgers.List(ctx)
	if err != nil {
		return nil, err
	}
	if versionErr != nil {
		s.log.Warnw("read burger cache generation failed", "error", versionErr)
	} else if err := s.cache.SetBurgers(ctx, version, burgers); err != nil {
		s.log.Warnw("write burger cache failed", "error", err)
	}
	return burgers, nil
}

func (s *CatalogService) GetBurger(ctx context.Context, id uint) (*model.Burger, error) {
	if id == 0 {
		return nil, ErrBurgerNotFound
	}
	burger, err := s.store.Burgers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if burger == nil {
		return nil, ErrBurgerNotFound
	}
	return burger, nil
}

// optional trims s and treats a blank value as absent.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
