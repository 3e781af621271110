// Package bankdb stores built template banks in a SQLite database.
package bankdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/hexbank/internal/bank"
	"github.com/banshee-data/hexbank/internal/metric"
	"github.com/banshee-data/hexbank/internal/monitoring"
)

// ErrNotFound is returned when no bank has the requested id.
var ErrNotFound = errors.New("bankdb: bank not found")

type DB struct {
	*sql.DB
}

// Record describes one stored bank without its templates.
type Record struct {
	ID            string
	Label         string
	CreatedAt     time.Time
	Params        bank.GridParam
	Stats         bank.Stats
	TemplateCount int
}

// Open opens (creating if needed) the database at path and migrates it to
// the latest schema.
func Open(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenDB opens the database at path without touching its schema, for the
// migrate command.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	monitoring.Debugf("bankdb: opened %s", path)
	return &DB{sqlDB}, nil
}

// SaveBank stores b and its templates in one transaction and returns the
// new bank id.
func (db *DB) SaveBank(b *bank.Bank, label string) (string, error) {
	params, err := json.Marshal(b.Params)
	if err != nil {
		return "", fmt.Errorf("failed to encode params: %w", err)
	}
	stats, err := json.Marshal(b.Stats)
	if err != nil {
		return "", fmt.Errorf("failed to encode stats: %w", err)
	}

	id := uuid.NewString()
	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO banks (bank_id, label, created_unix_ns, params_json, stats_json, template_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, label, time.Now().UnixNano(), string(params), string(stats), len(b.Templates),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert bank: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO templates (
			bank_id, template_id, t0, t3, mass1, mass2, total_mass, eta, chirp_mass,
			ellipse_a, ellipse_b, ellipse_theta
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, t := range b.Templates {
		if _, err := stmt.Exec(id, t.ID, t.T0, t.T3, t.Mass1, t.Mass2, t.TotalMass, t.Eta, t.ChirpMass,
			t.Ellipse.A, t.Ellipse.B, t.Ellipse.Theta); err != nil {
			return "", fmt.Errorf("failed to insert template %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	monitoring.Logf("bankdb: saved bank %s with %d templates", id, len(b.Templates))
	return id, nil
}

const recordColumns = `bank_id, label, created_unix_ns, params_json, stats_json, template_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		r             Record
		createdNs     int64
		params, stats string
	)
	if err := row.Scan(&r.ID, &r.Label, &createdNs, &params, &stats, &r.TemplateCount); err != nil {
		return Record{}, err
	}
	r.CreatedAt = time.Unix(0, createdNs)
	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return Record{}, fmt.Errorf("failed to decode params of bank %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(stats), &r.Stats); err != nil {
		return Record{}, fmt.Errorf("failed to decode stats of bank %s: %w", r.ID, err)
	}
	return r, nil
}

// ListBanks returns all stored banks, oldest first.
func (db *DB) ListBanks() ([]Record, error) {
	rows, err := db.Query(`SELECT ` + recordColumns + ` FROM banks ORDER BY created_unix_ns, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetBank returns the record for id.
func (db *DB) GetBank(id string) (Record, error) {
	r, err := scanRecord(db.QueryRow(`SELECT `+recordColumns+` FROM banks WHERE bank_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// LoadTemplates returns the templates of bank id in id order.
func (db *DB) LoadTemplates(id string) ([]bank.Template, error) {
	if _, err := db.GetBank(id); err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT template_id, t0, t3, mass1, mass2, total_mass, eta, chirp_mass,
			ellipse_a, ellipse_b, ellipse_theta
		FROM templates WHERE bank_id = ? ORDER BY template_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bank.Template
	for rows.Next() {
		var t bank.Template
		var e metric.Ellipse
		if err := rows.Scan(&t.ID, &t.T0, &t.T3, &t.Mass1, &t.Mass2, &t.TotalMass, &t.Eta, &t.ChirpMass,
			&e.A, &e.B, &e.Theta); err != nil {
			return nil, err
		}
		t.Ellipse = e
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteBank removes bank id and its templates.
func (db *DB) DeleteBank(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM templates WHERE bank_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM banks WHERE bank_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}
