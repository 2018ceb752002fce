package phono

import (
	"context"
	"database/sql"
	"os"

	_ "modernc.org/sqlite"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

var sqliteSchema = []string{
	`CREATE TABLE entries (
		word     TEXT    NOT NULL,
		phones   TEXT    NOT NULL,
		position INTEGER NOT NULL
	)`,
	`CREATE INDEX entries_word ON entries(word)`,
}

// ExportSQLite writes d to a fresh SQLite database at path. Each
// pronunciation is a row; position is its rank among the word's
// pronunciations, starting at 0.
func ExportSQLite(ctx context.Context, path string, d Dictionary) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return yerrors.NewIO("remove", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return yerrors.NewIO("open", path, err)
	}
	defer db.Close()

	for _, q := range sqliteSchema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return yerrors.NewIO("create schema", path, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return yerrors.NewIO("begin", path, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (word, phones, position) VALUES (?, ?, ?)`)
	if err != nil {
		return yerrors.NewIO("prepare", path, err)
	}
	defer stmt.Close()

	pos := 0
	prev := ""
	for _, e := range d.Entries() {
		if e.Word != prev {
			pos, prev = 0, e.Word
		}
		if _, err := stmt.ExecContext(ctx, e.Word, e.Phones, pos); err != nil {
			return yerrors.NewIO("insert", path, err)
		}
		pos++
	}
	if err := tx.Commit(); err != nil {
		return yerrors.NewIO("commit", path, err)
	}
	return nil
}

// ReadSQLite loads a dictionary written by ExportSQLite.
func ReadSQLite(ctx context.Context, path string) (Dictionary, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, yerrors.NewIO("stat", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, yerrors.NewIO("open", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT word, phones FROM entries ORDER BY word, position`)
	if err != nil {
		return nil, yerrors.NewIO("query", path, err)
	}
	defer rows.Close()

	d := make(Dictionary)
	for rows.Next() {
		var word, phones string
		if err := rows.Scan(&word, &phones); err != nil {
			return nil, yerrors.NewIO("scan", path, err)
		}
		d[word] = append(d[word], phones)
	}
	if err := rows.Err(); err != nil {
		return nil, yerrors.NewIO("read", path, err)
	}
	return d, nil
}
