package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/reference"
	"github.com/homeledger/homeledger/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateCategory(ctx context.Context, c *reference.Category) error {
	query := `
		INSERT INTO categories (name, icon, color, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.Icon, c.Color, c.Type).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) GetCategoryByName(ctx context.Context, name string) (*reference.Category, error) {
	query := `SELECT id, name, icon, color, type FROM categories WHERE name = $1`

	var c reference.Category

	var typeStr string

	err := s.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &typeStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, reference.ErrCategoryNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	c.Type = transaction.Type(typeStr)

	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*reference.Category, error) {
	query := `SELECT id, name, icon, color, type FROM categories ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*reference.Category

	for rows.Next() {
		var c reference.Category

		var typeStr string

		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &typeStr); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.Type = transaction.Type(typeStr)
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting deleted rows: %w", err)
	}

	if affected == 0 {
		return reference.ErrCategoryNotFound
	}

	return nil
}

func (s *Store) CreateProperty(ctx context.Context, p *reference.Property) error {
	query := `
		INSERT INTO properties (user_id, name, address)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, p.UserID, p.Name, p.Address).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("creating property: %w", err)
	}

	return nil
}

func (s *Store) ListProperties(ctx context.Context, userID uuid.UUID) ([]*reference.Property, error) {
	query := `SELECT id, user_id, name, address FROM properties WHERE user_id = $1 ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var properties []*reference.Property

	for rows.Next() {
		var p reference.Property

		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Address); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}

		properties = append(properties, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property rows: %w", err)
	}

	return properties, nil
}

func (s *Store) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting deleted rows: %w", err)
	}

	if affected == 0 {
		return reference.ErrPropertyNotFound
	}

	return nil
}
