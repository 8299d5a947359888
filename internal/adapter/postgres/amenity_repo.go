package postgres

import (
	"context"

	"hbnb/internal/domain"
)

func scanAmenity(row rowScanner) (*domain.Amenity, error) {
	var a domain.Amenity
	if err := row.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// AddAmenity inserts an amenity.
func (d *DB) AddAmenity(ctx context.Context, a *domain.Amenity) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO amenities (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		a.ID, a.Name, a.CreatedAt, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrAmenityExists
	}
	return err
}

// GetAmenity retrieves an amenity by ID.
func (d *DB) GetAmenity(ctx context.Context, id string) (*domain.Amenity, error) {
	return scanAmenity(d.sql.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM amenities WHERE id = $1", id))
}

// GetAmenityByName retrieves an amenity by name, case-insensitively.
func (d *DB) GetAmenityByName(ctx context.Context, name string) (*domain.Amenity, error) {
	return scanAmenity(d.sql.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM amenities WHERE lower(name) = lower($1)", name))
}

// ListAmenities returns all amenities, oldest first.
func (d *DB) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, name, created_at, updated_at FROM amenities ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Amenity{}
	for rows.Next() {
		a, err := scanAmenity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateAmenity renames an amenity.
func (d *DB) UpdateAmenity(ctx context.Context, a *domain.Amenity) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE amenities SET name = $2, updated_at = $3 WHERE id = $1",
		a.ID, a.Name, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrAmenityExists
	}
	return expectOne(res, err)
}
