package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"hbnb/internal/domain"
)

const placeColumns = "id, title, description, price, latitude, longitude, owner_id, created_at, updated_at"

func scanPlace(row rowScanner) (*domain.Place, error) {
	var p domain.Place
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Latitude, &p.Longitude, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// AddPlace inserts a place and its amenity links in one transaction.
func (d *DB) AddPlace(ctx context.Context, p *domain.Place) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO places ("+placeColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
			p.ID, p.Title, p.Description, p.Price, p.Latitude, p.Longitude, p.OwnerID, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return insertAmenityLinks(ctx, tx, p)
	})
}

// GetPlace retrieves a place by ID with its amenity links.
func (d *DB) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	p, err := scanPlace(d.sql.QueryRowContext(ctx,
		"SELECT "+placeColumns+" FROM places WHERE id = $1", id))
	if err != nil {
		return nil, err
	}
	links, err := d.amenityLinks(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.AmenityIDs = links[p.ID]
	return p, nil
}

// ListPlaces returns all places, oldest first.
func (d *DB) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	return d.listPlaces(ctx, "SELECT "+placeColumns+" FROM places ORDER BY created_at, id")
}

// ListPlacesByOwner returns the places owned by a user.
func (d *DB) ListPlacesByOwner(ctx context.Context, ownerID string) ([]domain.Place, error) {
	return d.listPlaces(ctx, "SELECT "+placeColumns+" FROM places WHERE owner_id = $1 ORDER BY created_at, id", ownerID)
}

func (d *DB) listPlaces(ctx context.Context, query string, args ...any) ([]domain.Place, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Place{}
	ids := []string{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	links, err := d.amenityLinks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].AmenityIDs = links[out[i].ID]
	}
	return out, nil
}

// UpdatePlace overwrites a place's mutable fields and replaces its amenity links.
func (d *DB) UpdatePlace(ctx context.Context, p *domain.Place) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE places SET title = $2, description = $3, price = $4, latitude = $5, longitude = $6, updated_at = $7 WHERE id = $1",
			p.ID, p.Title, p.Description, p.Price, p.Latitude, p.Longitude, p.UpdatedAt,
		)
		if err := expectOne(res, err); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM place_amenities WHERE place_id = $1", p.ID); err != nil {
			return err
		}
		return insertAmenityLinks(ctx, tx, p)
	})
}

func insertAmenityLinks(ctx context.Context, tx *sql.Tx, p *domain.Place) error {
	for i, aid := range p.AmenityIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO place_amenities (place_id, amenity_id, position) VALUES ($1, $2, $3)",
			p.ID, aid, i,
		); err != nil {
			return fmt.Errorf("link amenity %s: %w", aid, err)
		}
	}
	return nil
}

// amenityLinks returns the linked amenity IDs per place, in link order.
func (d *DB) amenityLinks(ctx context.Context, placeIDs []string) (map[string][]string, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT place_id, amenity_id FROM place_amenities WHERE place_id = ANY($1) ORDER BY place_id, position",
		pq.Array(placeIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make(map[string][]string, len(placeIDs))
	for rows.Next() {
		var pid, aid string
		if err := rows.Scan(&pid, &aid); err != nil {
			return nil, err
		}
		out[pid] = append(out[pid], aid)
	}
	return out, rows.Err()
}

func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
