// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/animeapi/internal/platform/database/schema"
	"github.com/taibuivan/animeapi/internal/platform/dberr"
	"github.com/taibuivan/animeapi/pkg/normalize"
)

// Querier is the subset of pgxpool.Pool used by the store. pgxmock pools
// satisfy it in tests.
type Querier interface {
	Exec(context context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(context context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
}

// psql builds PostgreSQL-flavoured statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresRepository persists the catalog through the core.* stored functions.
//
// Every row carries the [normalize.Name] key of its name next to the display
// form. Uniqueness, lookups and search compare keys only.
type PostgresRepository struct {
	db Querier
}

// NewPostgresRepository constructs a [PostgresRepository].
func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns renders the scan-order column list.
func selectColumns() string {
	return strings.Join(schema.CoreAnime.Columns(), ", ")
}

func scanAnime(row pgx.Row) (*Anime, error) {
	a := &Anime{}
	var status string
	err := row.Scan(
		&a.ID, &a.Name, &status, &a.StudioID, &a.ReleaseDate.Time, &a.EpisodeCount,
		&a.Genres, &a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	a.Status = Status(status)
	return a, err
}

// # Reads

func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Anime, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s($1)`, selectColumns(), schema.CoreAnime.FnGetByName)

	a, err := scanAnime(repository.db.QueryRow(context, query, normalize.Name(name)))
	if err != nil {
		return nil, fail(err, "get_anime_by_name", name)
	}
	return a, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Anime, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s($1)`, selectColumns(), schema.CoreAnime.FnGetByID)

	a, err := scanAnime(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, fail(err, "get_anime_by_id", fmt.Sprint(id))
	}
	return a, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Anime, error) {
	builder := applyFilter(psql.Select(schema.CoreAnime.Columns()...).From(schema.CoreAnime.FnGetAll+"()"), filter).
		OrderBy(schema.CoreAnime.ID + " ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("anime: build list query: %w", err)
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, fail(err, "get_all_anime", "")
	}
	defer rows.Close()

	items := make([]*Anime, 0, limit)
	for rows.Next() {
		a, err := scanAnime(rows)
		if err != nil {
			return nil, fail(err, "scan_anime", "")
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(err, "get_all_anime", "")
	}

	return items, nil
}

func (repository *PostgresRepository) Count(context context.Context, filter Filter) (int, error) {
	query, args, err := applyFilter(psql.Select("count(*)").From(schema.CoreAnime.FnGetAll+"()"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("anime: build count query: %w", err)
	}

	var total int
	if err := repository.db.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, fail(err, "count_anime", "")
	}
	return total, nil
}

func applyFilter(builder squirrel.SelectBuilder, filter Filter) squirrel.SelectBuilder {
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{schema.CoreAnime.Status: string(filter.Status)})
	}
	if key := normalize.Name(filter.Query); key != "" {
		builder = builder.Where(squirrel.Like{schema.CoreAnime.NameKey: "%" + escapeLike(key) + "%"})
	}
	if len(filter.Genres) > 0 {
		builder = builder.Where(squirrel.Expr(genresContain, filter.Genres))
	}
	return builder
}

// genresContain matches rows holding every requested genre, ignoring case on
// both sides.
var genresContain = fmt.Sprintf(
	`ARRAY(SELECT lower(g) FROM unnest(%s) AS g) @> ARRAY(SELECT lower(g) FROM unnest(?::text[]) AS g)`,
	schema.CoreAnime.Genres,
)

// likeEscaper makes user input literal inside a LIKE pattern using the
// default backslash escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// # Writes

func (repository *PostgresRepository) Create(context context.Context, a *Anime) error {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		schema.CoreAnime.ID, schema.CoreAnime.UpdatedBy, schema.CoreAnime.CreatedAt, schema.CoreAnime.UpdatedAt,
		schema.CoreAnime.FnAdd,
	)

	err := repository.db.QueryRow(context, query,
		a.Name, normalize.Name(a.Name), string(a.Status), a.StudioID, a.ReleaseDate.Time, a.EpisodeCount, a.Genres, a.CreatedBy,
	).Scan(&a.ID, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt)

	return fail(err, "add_anime", a.Name)
}

func (repository *PostgresRepository) Update(context context.Context, a *Anime) error {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		schema.CoreAnime.CreatedBy, schema.CoreAnime.CreatedAt, schema.CoreAnime.UpdatedAt,
		schema.CoreAnime.FnUpdate,
	)

	err := repository.db.QueryRow(context, query,
		a.ID, a.Name, normalize.Name(a.Name), string(a.Status), a.StudioID, a.ReleaseDate.Time, a.EpisodeCount, a.Genres, a.UpdatedBy,
	).Scan(&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)

	return fail(err, "update_anime", a.Name)
}

func (repository *PostgresRepository) DeleteByName(context context.Context, name, actor string) error {
	query := fmt.Sprintf(`SELECT %s($1, $2)`, schema.CoreAnime.FnDeleteByName)

	var affected int
	if err := repository.db.QueryRow(context, query, normalize.Name(name), actor).Scan(&affected); err != nil {
		return fail(err, "delete_anime_by_name", name)
	}

	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// fail classifies err via [dberr.Wrap]. Absence comes back as [ErrNotFound];
// unclassified failures keep the operation and name in their cause.
func fail(err error, operation, name string) error {
	if err == nil {
		return nil
	}

	if name != "" {
		operation = operation + " " + strconv.Quote(name)
	}

	wrapped := dberr.Wrap(err, operation)
	if dberr.IsNotFound(wrapped) {
		return ErrNotFound
	}
	return wrapped
}
