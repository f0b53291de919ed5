package reference

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reference
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProperty(ctx context.Context, p *Property) error
	ListProperties(ctx context.Context, userID uuid.UUID) ([]*Property, error)
	DeleteProperty(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CategoryParams struct {
	Name  string
	Icon  string
	Color string
	Type  transaction.Type
}

func (s *Service) CreateCategory(ctx context.Context, params CategoryParams) (*Category, error) {
	typ := params.Type
	if typ == "" {
		typ = transaction.TypeExpense
	}

	c := &Category{
		Name:  params.Name,
		Icon:  params.Icon,
		Color: params.Color,
		Type:  typ,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

// DefaultCategory returns the catch-all import category, creating it if it
// does not exist yet.
func (s *Service) DefaultCategory(ctx context.Context) (*Category, error) {
	c, err := s.repo.GetCategoryByName(ctx, DefaultCategoryName)
	if err == nil {
		return c, nil
	}

	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	return s.CreateCategory(ctx, CategoryParams{
		Name:  DefaultCategoryName,
		Icon:  "❓",
		Color: "gray",
		Type:  transaction.TypeExpense,
	})
}

type PropertyParams struct {
	UserID  uuid.UUID
	Name    string
	Address string
}

func (s *Service) CreateProperty(ctx context.Context, params PropertyParams) (*Property, error) {
	p := &Property{
		UserID:  params.UserID,
		Name:    params.Name,
		Address: params.Address,
	}
	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) ListProperties(ctx context.Context, userID uuid.UUID) ([]*Property, error) {
	return s.repo.ListProperties(ctx, userID)
}

func (s *Service) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProperty(ctx, id)
}

// CategoryMap indexes categories by ID for analytics lookups.
func CategoryMap(categories []*Category) map[uuid.UUID]Category {
	m := make(map[uuid.UUID]Category, len(categories))
	for _, c := range categories {
		m[c.ID] = *c
	}

	return m
}

// PropertyMap indexes properties by ID for analytics lookups.
func PropertyMap(properties []*Property) map[uuid.UUID]Property {
	m := make(map[uuid.UUID]Property, len(properties))
	for _, p := range properties {
		m[p.ID] = *p
	}

	return m
}
