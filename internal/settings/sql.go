package settings

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLStore keeps every set in one SQLite table, one row per key.
type SQLStore struct {
	conn *sqlx.DB
}

type row struct {
	Key   string  `db:"key"`
	Value float64 `db:"value"`
}

func OpenSQL(path string) (*SQLStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLStore) Close() error {
	return s.conn.Close()
}

func (s *SQLStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		name TEXT NOT NULL,
		key TEXT NOT NULL,
		value REAL NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (name, key)
	);`
	_, err := s.conn.Exec(schema)
	return err
}

// Save replaces the whole set in one transaction.
func (s *SQLStore) Save(name string, v Values) error {
	if err := checkName(name); err != nil {
		return err
	}
	tx, err := s.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM settings WHERE name = ?", name); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}

	stmt, err := tx.Preparex("INSERT INTO settings (name, key, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for k, val := range v {
		if _, err := stmt.Exec(name, k, val); err != nil {
			return fmt.Errorf("insert %s.%s: %w", name, k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Load(name string) (Values, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var rows []row
	if err := s.conn.Select(&rows, "SELECT key, value FROM settings WHERE name = ?", name); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	v := make(Values, len(rows))
	for _, r := range rows {
		v[r.Key] = r.Value
	}
	return v, nil
}

func (s *SQLStore) List() ([]string, error) {
	var names []string
	if err := s.conn.Select(&names, "SELECT DISTINCT name FROM settings ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return names, nil
}

func (s *SQLStore) Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	res, err := s.conn.Exec("DELETE FROM settings WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
