package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/url-shortener/internal/shortener"
)

const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save inserts the mapping. The unique index on url_hash makes the dedup check
// and the insert a single statement; a primary key violation means the code is taken.
func (p *PostgresStore) Save(ctx context.Context, shortURL *shortener.ShortURL) (*shortener.ShortURL, error) {
	query := `
		INSERT INTO short_urls (code, original_url, url_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (url_hash) DO NOTHING
		RETURNING code, original_url, url_hash, created_at
	`

	row := p.pool.QueryRow(ctx, query,
		string(shortURL.Code),
		shortURL.OriginalURL,
		string(shortURL.URLHash),
		shortURL.CreatedAt,
	)

	stored, err := scanShortURL(row)
	if err == nil {
		return stored, nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return p.GetByHash(ctx, shortURL.URLHash)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, shortener.ErrCodeConflict
	}

	return nil, err
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT code, original_url, url_hash, created_at
		FROM short_urls
		WHERE code = $1
	`

	return p.getOne(ctx, query, string(code))
}

func (p *PostgresStore) GetByHash(ctx context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	query := `
		SELECT code, original_url, url_hash, created_at
		FROM short_urls
		WHERE url_hash = $1
	`

	return p.getOne(ctx, query, string(hash))
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) getOne(ctx context.Context, query string, arg string) (*shortener.ShortURL, error) {
	url, err := scanShortURL(p.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return url, nil
}

func scanShortURL(row pgx.Row) (*shortener.ShortURL, error) {
	var url shortener.ShortURL

	err := row.Scan(
		&url.Code,
		&url.OriginalURL,
		&url.URLHash,
		&url.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &url, nil
}

var _ shortener.Repository = (*PostgresStore)(nil)
