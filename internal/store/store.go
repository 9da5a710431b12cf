// Package store is the PostgreSQL persistence layer: it loads the catalog
// snapshot the importer resolves against and upserts finished figurine
// batches by natural key.
package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesofi/mythcloth/internal/catalog"
	"github.com/mesofi/mythcloth/internal/figurine"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the embedded schema. Every statement is idempotent, so
// running it on startup is safe.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// LoadSnapshot reads the complete contents of all five reference catalogs
// and the distributor list. Catalogs are small bounded reference data, so
// everything loads in one pass with no chunking.
func (s *Store) LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	distributions, err := s.loadEntries(ctx, "distributions")
	if err != nil {
		return nil, err
	}
	lineUps, err := s.loadEntries(ctx, "line_ups")
	if err != nil {
		return nil, err
	}
	series, err := s.loadEntries(ctx, "series")
	if err != nil {
		return nil, err
	}
	groups, err := s.loadEntries(ctx, "groups")
	if err != nil {
		return nil, err
	}

	anniversaries, err := s.loadAnniversaries(ctx)
	if err != nil {
		return nil, err
	}
	distributors, err := s.loadDistributors(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.NewSnapshot(distributions, lineUps, series, groups, anniversaries, distributors), nil
}

func (s *Store) loadEntries(ctx context.Context, table string) ([]catalog.Entry, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT id, description FROM %s ORDER BY id", table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(&e.ID, &e.Description); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) loadAnniversaries(ctx context.Context) ([]catalog.Anniversary, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, description, year FROM anniversaries ORDER BY year")
	if err != nil {
		return nil, fmt.Errorf("query anniversaries: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Anniversary
	for rows.Next() {
		var a catalog.Anniversary
		if err := rows.Scan(&a.ID, &a.Description, &a.Year); err != nil {
			return nil, fmt.Errorf("scan anniversary row: %w", err)
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

func (s *Store) loadDistributors(ctx context.Context) ([]catalog.Distributor, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name, country, COALESCE(website, '') FROM distributors ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query distributors: %w", err)
	}
	defer rows.Close()

	var distributors []catalog.Distributor
	for rows.Next() {
		var d catalog.Distributor
		if err := rows.Scan(&d.ID, &d.Name, &d.Country, &d.Website); err != nil {
			return nil, fmt.Errorf("scan distributor row: %w", err)
		}
		distributors = append(distributors, d)
	}
	return distributors, rows.Err()
}

// xmax = 0 in the RETURNING clause distinguishes a fresh insert from a
// conflict update, so the run can report both counts.
const upsertFigurineSQL = `
INSERT INTO figurines (
    legacy_name, normalized_name, tamashii_url,
    distribution_id, lineup_id, series_id, group_id, anniversary_id,
    is_metal_body, is_oce, is_revival, is_plain_cloth, is_broken,
    is_golden, is_gold, is_manga, is_surplice, is_set, is_articulable,
    remarks
) VALUES (
    $1, $2, $3,
    $4, $5, $6, $7, $8,
    $9, $10, $11, $12, $13,
    $14, $15, $16, $17, $18, $19,
    $20
)
ON CONFLICT (legacy_name) DO UPDATE SET
    normalized_name = EXCLUDED.normalized_name,
    tamashii_url    = EXCLUDED.tamashii_url,
    distribution_id = EXCLUDED.distribution_id,
    lineup_id       = EXCLUDED.lineup_id,
    series_id       = EXCLUDED.series_id,
    group_id        = EXCLUDED.group_id,
    anniversary_id  = EXCLUDED.anniversary_id,
    is_metal_body   = EXCLUDED.is_metal_body,
    is_oce          = EXCLUDED.is_oce,
    is_revival      = EXCLUDED.is_revival,
    is_plain_cloth  = EXCLUDED.is_plain_cloth,
    is_broken       = EXCLUDED.is_broken,
    is_golden       = EXCLUDED.is_golden,
    is_gold         = EXCLUDED.is_gold,
    is_manga        = EXCLUDED.is_manga,
    is_surplice     = EXCLUDED.is_surplice,
    is_set          = EXCLUDED.is_set,
    is_articulable  = EXCLUDED.is_articulable,
    remarks         = EXCLUDED.remarks
RETURNING id, (xmax = 0) AS inserted`

const insertMarketSQL = `
INSERT INTO figurine_markets (
    figurine_id, distributor_id, currency, price,
    announcement_date, preorder_date, release_date, release_date_confirmed
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// UpsertFigurines persists a batch in one transaction: each figurine is
// inserted or, when its legacy name already exists, updated in place; its
// market entries and image lists are replaced wholesale since the parent
// owns them. Either the whole batch lands or none of it does.
func (s *Store) UpsertFigurines(ctx context.Context, batch []*figurine.Figurine) (inserted, updated int, err error) {
	if len(batch) == 0 {
		return 0, 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	for _, f := range batch {
		var isInsert bool
		err := tx.QueryRow(ctx, upsertFigurineSQL,
			f.LegacyName, f.NormalizedName, f.TamashiiURL,
			entryID(f.Distribution), entryID(f.LineUp), entryID(f.Series), entryID(f.Group), anniversaryID(f.Anniversary),
			f.MetalBody, f.OCE, f.Revival, f.PlainCloth, f.Broken,
			f.Golden, f.Gold, f.Manga, f.Surplice, f.Set, f.Articulable,
			f.Remarks,
		).Scan(&f.ID, &isInsert)
		if err != nil {
			return 0, 0, fmt.Errorf("upsert figurine %q: %w", f.NormalizedName, err)
		}
		if isInsert {
			inserted++
		} else {
			updated++
		}
	}

	pgBatch := &pgx.Batch{}
	for _, f := range batch {
		pgBatch.Queue("DELETE FROM figurine_markets WHERE figurine_id = $1", f.ID)
		pgBatch.Queue("DELETE FROM official_images WHERE figurine_id = $1", f.ID)
		pgBatch.Queue("DELETE FROM non_official_images WHERE figurine_id = $1", f.ID)

		for _, m := range f.Markets {
			pgBatch.Queue(insertMarketSQL,
				f.ID, m.Distributor.ID, m.Currency, m.Price,
				m.AnnouncementDate, m.PreorderDate, m.ReleaseDate, m.ReleaseDateConfirmed,
			)
		}
		for i, url := range f.OfficialImages {
			pgBatch.Queue("INSERT INTO official_images (figurine_id, position, url) VALUES ($1, $2, $3)", f.ID, i, url)
		}
		for i, url := range f.NonOfficialImages {
			pgBatch.Queue("INSERT INTO non_official_images (figurine_id, position, url) VALUES ($1, $2, $3)", f.ID, i, url)
		}
	}

	br := tx.SendBatch(ctx, pgBatch)
	for i := 0; i < pgBatch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, 0, fmt.Errorf("write market entries: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, updated, nil
}

// entryID returns a nullable FK value for an optional catalog reference.
func entryID(e *catalog.Entry) any {
	if e == nil {
		return nil
	}
	return e.ID
}

func anniversaryID(a *catalog.Anniversary) any {
	if a == nil {
		return nil
	}
	return a.ID
}
