package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcus/daygrid/internal/completion"
	"github.com/marcus/daygrid/internal/dates"
	"github.com/marcus/daygrid/internal/logging"
)

const legacyDumpFile = "keychain.json"

// ImportResult counts what an import did.
type ImportResult struct {
	Imported int
	Skipped  []string
}

// legacyDumpPath is where a keychain dump from the legacy widgets is
// picked up automatically.
func legacyDumpPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), legacyDumpFile)
}

// importLegacyDump loads a keychain dump into an empty store and renames
// the file so it is only imported once.
func (d *DB) importLegacyDump(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat legacy dump: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("legacy dump path is directory: %s", path)
	}

	existing, err := d.All()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open legacy dump: %w", err)
	}
	res, err := d.Import(f, path)
	_ = f.Close()
	if err != nil {
		return err
	}

	if err := os.Rename(path, path+".migrated"); err != nil {
		return fmt.Errorf("rename legacy dump: %w", err)
	}

	logging.Component("db").Infof("migrated %d keys from %s (%d skipped)", res.Imported, legacyDumpFile, len(res.Skipped))
	return nil
}

// Import reads a JSON object of key to string value and stores every entry
// in one transaction. Values that fail validation are skipped.
func (d *DB) Import(r io.Reader, source string) (ImportResult, error) {
	var res ImportResult
	if d == nil || d.sql == nil {
		return res, errors.New("db is nil")
	}

	var dump map[string]string
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return res, fmt.Errorf("parse dump: %w", err)
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return res, fmt.Errorf("begin import: %w", err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if err != nil {
		_ = tx.Rollback()
		return res, fmt.Errorf("prepare kv insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for key, value := range dump {
		normalized, ok := normalizeValue(key, value)
		if !ok {
			res.Skipped = append(res.Skipped, key)
			continue
		}
		if _, err := stmt.Exec(key, normalized); err != nil {
			_ = tx.Rollback()
			return ImportResult{}, fmt.Errorf("insert %s: %w", key, err)
		}
		res.Imported++
	}

	if _, err := tx.Exec(`INSERT INTO import_log (source, imported, skipped, imported_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		source, res.Imported, len(res.Skipped)); err != nil {
		_ = tx.Rollback()
		return ImportResult{}, fmt.Errorf("record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("commit import: %w", err)
	}
	return res, nil
}

// Export writes every stored key as an indented JSON object, the same shape
// Import reads.
func (d *DB) Export(w io.Writer) error {
	all, err := d.All()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(all); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	return nil
}

// normalizeValue validates values by key naming convention: *Date holds a
// single date, *Dates a JSON list of dates, *Theme dark or light. An
// instance suffix (":name") is ignored.
func normalizeValue(key, value string) (string, bool) {
	base := key
	if i := strings.IndexByte(key, ':'); i >= 0 {
		base = key[:i]
	}
	switch {
	case value == "":
		return "", false
	case strings.HasSuffix(base, "Dates"):
		set, _, err := completion.Parse(value)
		if err != nil {
			return "", false
		}
		return set.String(), true
	case strings.HasSuffix(base, "Date"):
		return value, dates.Valid(value)
	case strings.HasSuffix(base, "Theme"):
		return value, value == "dark" || value == "light"
	default:
		return value, true
	}
}
