package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"specsheet/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filename TEXT NOT NULL UNIQUE,
  series TEXT NOT NULL,
  productType TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'extracted',
  confidenceScore INTEGER NOT NULL DEFAULT 0,
  confidenceLevel TEXT NOT NULL DEFAULT 'low',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_documents_series ON documents(series);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS fields (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  field TEXT NOT NULL,
  value TEXT NOT NULL,
  confidence TEXT NOT NULL,
  reason TEXT NOT NULL,
  source TEXT,
  page INTEGER,
  UNIQUE(documentId, field),
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS model_codes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  code TEXT NOT NULL,
  UNIQUE(documentId, code),
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  modelCode TEXT NOT NULL,
  fieldsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(documentId, modelCode),
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  documentId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveResult upserts a document row plus its field records, confidence
// entries and model codes in one transaction. Re-processing a filename
// replaces its previous extraction.
func (d *DB) SaveResult(result internal.DocumentResult) (internal.DocumentRow, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return internal.DocumentRow{}, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
INSERT INTO documents (filename, series, productType, confidenceScore, confidenceLevel)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(filename) DO UPDATE SET
  series=excluded.series,
  productType=excluded.productType,
  status='extracted',
  confidenceScore=excluded.confidenceScore,
  confidenceLevel=excluded.confidenceLevel,
  updatedAt=CURRENT_TIMESTAMP
`, result.Filename, result.Series, string(result.ProductType), result.ConfidenceScore, string(result.ConfidenceLevel))
	if err != nil {
		return internal.DocumentRow{}, err
	}

	var docID int
	if err := tx.QueryRow(`SELECT id FROM documents WHERE filename = ?`, result.Filename).Scan(&docID); err != nil {
		return internal.DocumentRow{}, err
	}

	if _, err := tx.Exec(`DELETE FROM fields WHERE documentId = ?`, docID); err != nil {
		return internal.DocumentRow{}, err
	}
	if _, err := tx.Exec(`DELETE FROM model_codes WHERE documentId = ?`, docID); err != nil {
		return internal.DocumentRow{}, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO fields (documentId, field, value, confidence, reason, source, page)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	defer stmt.Close()

	for field, value := range result.Fields {
		entry := result.Validation[field]
		if _, err := stmt.Exec(docID, field, value, string(entry.Confidence), entry.Reason, entry.Source, entry.Page); err != nil {
			return internal.DocumentRow{}, err
		}
	}

	for _, code := range result.ModelCodes {
		if _, err := tx.Exec(`INSERT INTO model_codes (documentId, code) VALUES (?, ?)`, docID, code); err != nil {
			return internal.DocumentRow{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return internal.DocumentRow{}, err
	}

	row, err := d.GetDocumentByFilename(result.Filename)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	if row == nil {
		return internal.DocumentRow{}, errors.New("failed to upsert document")
	}
	return *row, nil
}

func (d *DB) GetDocumentByFilename(filename string) (*internal.DocumentRow, error) {
	var row internal.DocumentRow
	err := d.conn.QueryRow(`
SELECT id, filename, series, productType, status, confidenceScore, confidenceLevel, createdAt
FROM documents WHERE filename = ?
`, filename).Scan(
		&row.ID, &row.Filename, &row.Series, &row.ProductType, &row.Status,
		&row.ConfidenceScore, &row.ConfidenceLevel, &row.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustDocumentByFilename(filename string) (internal.DocumentRow, error) {
	row, err := d.GetDocumentByFilename(filename)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	if row == nil {
		return internal.DocumentRow{}, fmt.Errorf("document not found: %s", filename)
	}
	return *row, nil
}

func (d *DB) ListDocuments() ([]internal.DocumentRow, error) {
	rows, err := d.conn.Query(`
SELECT id, filename, series, productType, status, confidenceScore, confidenceLevel, createdAt
FROM documents ORDER BY filename ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DocumentRow
	for rows.Next() {
		var row internal.DocumentRow
		if err := rows.Scan(
			&row.ID, &row.Filename, &row.Series, &row.ProductType, &row.Status,
			&row.ConfidenceScore, &row.ConfidenceLevel, &row.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateDocumentStatus(documentID int, status string) error {
	_, err := d.conn.Exec(`UPDATE documents SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, documentID)
	return err
}

// GetResult reconstructs a document's extraction from the fields and
// model_codes tables.
func (d *DB) GetResult(documentID int) (internal.DocumentResult, error) {
	var result internal.DocumentResult
	err := d.conn.QueryRow(`
SELECT filename, series, productType, confidenceScore, confidenceLevel
FROM documents WHERE id = ?
`, documentID).Scan(&result.Filename, &result.Series, &result.ProductType, &result.ConfidenceScore, &result.ConfidenceLevel)
	if err != nil {
		return internal.DocumentResult{}, err
	}

	result.Fields = internal.FieldRecord{}
	result.Validation = map[string]internal.ConfidenceEntry{}

	rows, err := d.conn.Query(`
SELECT field, value, confidence, reason, source, page FROM fields WHERE documentId = ?
`, documentID)
	if err != nil {
		return internal.DocumentResult{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var field, value, confidence, reason string
		var source sql.NullString
		var page sql.NullInt64
		if err := rows.Scan(&field, &value, &confidence, &reason, &source, &page); err != nil {
			return internal.DocumentResult{}, err
		}
		result.Fields[field] = value
		entry := internal.ConfidenceEntry{Confidence: internal.Confidence(confidence), Reason: reason, Source: source.String}
		if page.Valid {
			p := int(page.Int64)
			entry.Page = &p
		}
		result.Validation[field] = entry
	}
	if err := rows.Err(); err != nil {
		return internal.DocumentResult{}, err
	}

	codeRows, err := d.conn.Query(`SELECT code FROM model_codes WHERE documentId = ? ORDER BY code ASC`, documentID)
	if err != nil {
		return internal.DocumentResult{}, err
	}
	defer codeRows.Close()

	for codeRows.Next() {
		var code string
		if err := codeRows.Scan(&code); err != nil {
			return internal.DocumentResult{}, err
		}
		result.ModelCodes = append(result.ModelCodes, code)
	}
	return result, codeRows.Err()
}

// ReplaceProducts swaps a document's merged product rows for a new set.
func (d *DB) ReplaceProducts(documentID int, products []internal.Product) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM products WHERE documentId = ?`, documentID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO products (documentId, modelCode, fieldsJson) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range products {
		fieldsJSON, _ := json.Marshal(p.Fields)
		if _, err := stmt.Exec(documentID, p.ModelCode, string(fieldsJSON)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListProducts(documentID int) ([]internal.Product, error) {
	rows, err := d.conn.Query(`
SELECT modelCode, fieldsJson FROM products WHERE documentId = ? ORDER BY modelCode ASC
`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Product
	for rows.Next() {
		var p internal.Product
		var fieldsJSON string
		if err := rows.Scan(&p.ModelCode, &fieldsJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(fieldsJSON), &p.Fields)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, documentID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, documentId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, documentID, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
