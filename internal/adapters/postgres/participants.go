package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"marketdir/internal/domain"
	"marketdir/internal/ports"
	"marketdir/internal/services/dedupe"
)

const uniqueViolation = "23505"

// Snapshot loads the identity keys of every persisted participant, using the
// same normalization the dedupe stage applies to candidates so a stored
// www-variant still matches its bare registrable domain. Reloaded by the
// orchestrator at the start of each batch.
func (db *DB) Snapshot(ctx context.Context) (ports.Snapshot, error) {
	snap := ports.Snapshot{
		Domains: make(map[string]struct{}),
		Names:   make(map[string]struct{}),
	}
	rows, err := db.Pool.Query(ctx, `SELECT name, domain FROM market_participants`)
	if err != nil {
		return snap, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var dom *string
		if err := rows.Scan(&name, &dom); err != nil {
			return snap, err
		}
		if dom != nil && *dom != "" {
			snap.Domains[dedupe.NormalizeDomain(*dom)] = struct{}{}
		}
		snap.Names[dedupe.NormalizeName(name)] = struct{}{}
	}
	return snap, rows.Err()
}

// Insert persists one participant. A unique-index rejection surfaces as
// ports.ErrDuplicate so callers can count it instead of failing the run.
func (db *DB) Insert(ctx context.Context, p domain.Participant) error {
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO market_participants
            (id, name, domain, description, website, logo_url, primary_color,
             email, verified, company_type, region, quality_score, commodities, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `, p.ID, p.Name, p.Domain, p.Description, p.Website, p.LogoURL, p.PrimaryColor,
		p.Email, p.Verified, p.CompanyType, p.Region, p.QualityScore, p.Commodities, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ports.ErrDuplicate
		}
		return err
	}
	return nil
}

// CountByCommodity reports the directory size for one commodity tag.
func (db *DB) CountByCommodity(ctx context.Context, commodity string) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx, `
        SELECT count(*) FROM market_participants WHERE $1 = ANY(commodities)
    `, commodity).Scan(&n)
	return n, err
}
