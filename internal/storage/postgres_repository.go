// Package storage implements the DevelopmentStore collaborator on Postgres.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"devscanner/internal/domain"
	"devscanner/internal/ports"
)

// ErrDuplicateDevelopment is returned when an insert races an existing
// (area_id, source_url) row; the unique index backs ingestion idempotence.
var ErrDuplicateDevelopment = errors.New("development already exists for area and url")

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var developmentColumns = []string{
	"id", "area_id", "type", "title", "description", "impact_score",
	"date_announced", "expected_completion",
	"source_url", "source_publisher", "source_publish_date",
}

// PostgresRepository persists developments into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.DevelopmentStore = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindDevelopmentByAreaAndURL returns the development for one
// (area, source URL) pair, or nil when none exists.
func (r *PostgresRepository) FindDevelopmentByAreaAndURL(ctx context.Context, areaID, url string) (*domain.Development, error) {
	query, args, err := psql.
		Select(developmentColumns...).
		From("developments").
		Where(sq.Eq{"area_id": areaID}).
		Where(sq.Eq{"source_url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find query: %w", err)
	}

	dev, err := scanDevelopment(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find development: %w", err)
	}

	return dev, nil
}

// CreateDevelopment inserts a new development row.
func (r *PostgresRepository) CreateDevelopment(ctx context.Context, dev domain.Development) (domain.Development, error) {
	var completion sql.NullTime
	if dev.ExpectedCompletion != nil {
		completion = sql.NullTime{Time: *dev.ExpectedCompletion, Valid: true}
	}

	query, args, err := psql.
		Insert("developments").
		Columns(developmentColumns...).
		Values(
			dev.ID, dev.AreaID, string(dev.Type), dev.Title, dev.Description,
			dev.ImpactScore, dev.DateAnnounced, completion,
			dev.Source.URL, dev.Source.Publisher, dev.Source.PublishDate,
		).
		ToSql()
	if err != nil {
		return domain.Development{}, fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.Development{}, fmt.Errorf("%w: area %s url %s", ErrDuplicateDevelopment, dev.AreaID, dev.Source.URL)
		}
		return domain.Development{}, fmt.Errorf("insert development: %w", err)
	}

	return dev, nil
}

// DeleteDevelopmentsOlderThan removes an area's developments announced more
// than the given number of days ago and reports how many went away.
func (r *PostgresRepository) DeleteDevelopmentsOlderThan(ctx context.Context, areaID string, days int) (int, error) {
	query, args, err := psql.
		Delete("developments").
		Where(sq.Eq{"area_id": areaID}).
		Where(sq.Expr("date_announced < NOW() - make_interval(days => ?)", days)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete developments: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return int(affected), nil
}

// CountDevelopmentsByType groups an area's developments by type; an empty
// areaID counts across all areas.
func (r *PostgresRepository) CountDevelopmentsByType(ctx context.Context, areaID string) (map[domain.DevelopmentType]int, error) {
	builder := psql.
		Select("type", "COUNT(*)").
		From("developments").
		GroupBy("type")
	if areaID != "" {
		builder = builder.Where(sq.Eq{"area_id": areaID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count developments: %w", err)
	}
	defer rows.Close()

	counts := map[domain.DevelopmentType]int{}
	for rows.Next() {
		var devType string
		var count int
		if err := rows.Scan(&devType, &count); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[domain.DevelopmentType(devType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return counts, nil
}

// LatestAnnouncement returns the newest date_announced for an area (or
// globally when areaID is empty); zero time when nothing is stored.
func (r *PostgresRepository) LatestAnnouncement(ctx context.Context, areaID string) (time.Time, error) {
	builder := psql.
		Select("MAX(date_announced)").
		From("developments")
	if areaID != "" {
		builder = builder.Where(sq.Eq{"area_id": areaID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("build latest query: %w", err)
	}

	var latest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("latest announcement: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}

	return latest.Time, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevelopment(row rowScanner) (*domain.Development, error) {
	var dev domain.Development
	var devType string
	var completion sql.NullTime

	err := row.Scan(
		&dev.ID, &dev.AreaID, &devType, &dev.Title, &dev.Description,
		&dev.ImpactScore, &dev.DateAnnounced, &completion,
		&dev.Source.URL, &dev.Source.Publisher, &dev.Source.PublishDate,
	)
	if err != nil {
		return nil, err
	}

	dev.Type = domain.DevelopmentType(devType)
	if completion.Valid {
		dev.ExpectedCompletion = &completion.Time
	}

	return &dev, nil
}
