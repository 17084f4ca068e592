package sizes

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB keeps the latest sizes of every example for each target
type DB struct {
	db *sql.DB
}

// Open opens or creates the sqlite database in file
func Open(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS target (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS size (target_id INTEGER NOT NULL, example TEXT NOT NULL, code INTEGER NOT NULL, data INTEGER NOT NULL, UNIQUE(target_id, example), FOREIGN KEY(target_id) REFERENCES target(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database
func (db *DB) Close() error {
	return db.db.Close()
}

func addTarget(tx *sql.Tx, name string) (int64, error) {
	var id int64
	switch err := tx.QueryRow("SELECT id FROM target WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO target (name) VALUES (?)", name)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Import replaces every size held for target with records
func (db *DB) Import(target string, records []Record) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := addTarget(tx, target)
	if err != nil {
		return err
	}

	if _, err = tx.Exec("DELETE FROM size WHERE target_id = ?", id); err != nil {
		return err
	}

	for _, r := range records {
		if _, err = tx.Exec("INSERT OR REPLACE INTO size (target_id, example, code, data) VALUES (?, ?, ?, ?)", id, r.Example, r.Code, r.Data); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Lookup returns the sizes of example for target. It can be passed to
// WriteSheet.
func (db *DB) Lookup(target, example string) (Record, bool, error) {
	r := Record{Example: example}
	switch err := db.db.QueryRow("SELECT s.code, s.data FROM size AS s JOIN target AS t ON s.target_id = t.id WHERE t.name = ? AND s.example = ?", target, example).Scan(&r.Code, &r.Data); err {
	case sql.ErrNoRows:
		return Record{}, false, nil
	case nil:
		return r, true, nil
	default:
		return Record{}, false, err
	}
}

// Targets returns the name of every target imported, in alphabetical order
func (db *DB) Targets() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM target ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		targets = append(targets, name)
	}
	return targets, rows.Err()
}
