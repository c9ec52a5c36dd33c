package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists shops.
type Repository interface {
	Create(ctx context.Context, shop Shop) error
	Get(ctx context.Context, id string) (Shop, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Shop, error)
}

const shopColumns = `id, owner_id, name, slug, niche, product_link, marketplace, status, layout, created_at`

// PostgresRepository stores shops in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a shop record. The layout is stored as JSONB.
func (r *PostgresRepository) Create(ctx context.Context, shop Shop) error {
	shopID, err := uuid.Parse(shop.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(shop.OwnerID)
	if err != nil {
		return err
	}
	layout, err := json.Marshal(shop.Layout)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO shops (`+shopColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		shopID, ownerID, shop.Name, shop.Slug, shop.Niche, shop.ProductLink, shop.Marketplace, shop.Status, layout, shop.CreatedAt.UTC())
	return err
}

// Get fetches a shop by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Shop, error) {
	shopID, err := uuid.Parse(id)
	if err != nil {
		return Shop{}, ErrNotFound
	}
	shop, err := scanShop(r.db.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = $1`, shopID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Shop{}, ErrNotFound
	}
	return shop, err
}

// ListByOwner returns the owner's shops, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Shop, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+shopColumns+` FROM shops WHERE owner_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, shop)
	}
	return out, rows.Err()
}

func scanShop(row pgx.Row) (Shop, error) {
	var s Shop
	var idVal, ownerID uuid.UUID
	var layout []byte
	var createdAt time.Time
	if err := row.Scan(&idVal, &ownerID, &s.Name, &s.Slug, &s.Niche, &s.ProductLink, &s.Marketplace, &s.Status, &layout, &createdAt); err != nil {
		return Shop{}, err
	}
	if err := json.Unmarshal(layout, &s.Layout); err != nil {
		return Shop{}, fmt.Errorf("decode layout: %w", err)
	}
	s.ID = idVal.String()
	s.OwnerID = ownerID.String()
	s.CreatedAt = createdAt.UTC()
	return s, nil
}
