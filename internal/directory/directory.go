// Package directory is a people directory backed by SQLite. It answers
// mention queries as the "people-db" suggestion bucket.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	_ "modernc.org/sqlite"

	"github.com/iw2rmb/mentions/mention"
	"github.com/iw2rmb/mentions/suggestions"
	"github.com/iw2rmb/mentions/tokenizer"
)

const (
	BucketName   = "people-db"
	KindPerson   = "person"
	defaultLimit = 8
)

var ErrDatabase = errors.New("directory: database error")

const schema = `
CREATE TABLE IF NOT EXISTS people (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	partial   TEXT NOT NULL DEFAULT '',
	name_fold TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS people_name_fold ON people(name_fold);
`

// Directory is safe for concurrent use.
type Directory struct {
	db    *sql.DB
	limit int
}

// Open opens or creates the directory at dsn. ":memory:" keeps it in
// memory for the life of the Directory.
func Open(ctx context.Context, dsn string) (*Directory, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrDatabase, err)
	}
	// An in-memory database lives in a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: schema: %v", ErrDatabase, err)
	}
	return &Directory{db: db, limit: defaultLimit}, nil
}

func (d *Directory) Close() error { return d.db.Close() }

// SetLimit bounds the number of people returned per lookup.
func (d *Directory) SetLimit(n int) {
	if n > 0 {
		d.limit = n
	}
}

// Add inserts or replaces people in one transaction.
func (d *Directory) Add(ctx context.Context, people ...mention.Entity) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrDatabase, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO people (id, name, partial, name_fold) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %v", ErrDatabase, err)
	}
	defer stmt.Close()

	for _, p := range people {
		if _, err := stmt.ExecContext(ctx, p.EntityID, p.Full, p.Partial, fold(p.Full)); err != nil {
			return fmt.Errorf("%w: insert %d: %v", ErrDatabase, p.EntityID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrDatabase, err)
	}
	return nil
}

// Search returns people with a name word starting with prefix, ignoring
// case, ordered by name. An empty prefix matches everyone.
func (d *Directory) Search(ctx context.Context, prefix string) ([]mention.Entity, error) {
	p := escapeLike(fold(strings.TrimSpace(prefix)))
	rows, err := d.db.QueryContext(ctx, `
SELECT id, name, partial FROM people
WHERE name_fold LIKE ? ESCAPE '\' OR name_fold LIKE ? ESCAPE '\'
ORDER BY name_fold, id
LIMIT ?`, p+"%", "% "+p+"%", d.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrDatabase, err)
	}
	defer rows.Close()

	var out []mention.Entity
	for rows.Next() {
		e := mention.Entity{Style: mention.PartialNameDelete, Kind: KindPerson}
		if err := rows.Scan(&e.EntityID, &e.Full, &e.Partial); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrDatabase, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrDatabase, err)
	}
	return out, nil
}

func (d *Directory) Name() string { return BucketName }

// Lookup answers a query token with the people matching its keywords.
func (d *Directory) Lookup(ctx context.Context, token tokenizer.QueryToken) ([]suggestions.Suggestible, error) {
	people, err := d.Search(ctx, token.Keywords())
	if err != nil {
		return nil, err
	}
	out := make([]suggestions.Suggestible, 0, len(people))
	for _, p := range people {
		out = append(out, p)
	}
	return out, nil
}

// fold builds a Caser per call; a Caser must not be shared between goroutines.
func fold(s string) string { return cases.Fold().String(s) }

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
