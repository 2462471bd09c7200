// Package store keeps a reference catalog in SQLite: the items table holds
// one row per catalog code, filled from spreadsheets or HTML lists and
// enriched with what the extractor finds in catalog PDFs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/tsawler/smartcatalog/internal/patterns"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// ErrNoRows is returned when a looked-up item does not exist.
var ErrNoRows = errors.New("no such item")

// Item is a stored reference row plus what was learned from catalog PDFs.
type Item struct {
	ID int64
	model.ReferenceRow
	ProductGroup string
	PDFPage      *int
	PDFText      string
}

// Store is a SQLite-backed reference catalog
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path with WAL mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY,
	code TEXT UNIQUE,
	brand TEXT,
	type TEXT,
	shape TEXT,
	dimensions TEXT,
	qty INTEGER,
	category TEXT,
	product_group TEXT,
	pdf_page INTEGER,
	pdf_text TEXT
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// nullString maps "" to NULL so that COALESCE keeps stored values.
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

// Upsert inserts rows keyed by code. For an existing code, only the fields
// the new row carries replace stored values. Rows without a code are
// skipped. It returns the number of rows written.
func (s *Store) Upsert(ctx context.Context, rows []model.ReferenceRow) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO items(code, brand, type, shape, dimensions, qty, category)
VALUES(?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(code) DO UPDATE SET
	brand=COALESCE(excluded.brand, items.brand),
	type=COALESCE(excluded.type, items.type),
	shape=COALESCE(excluded.shape, items.shape),
	dimensions=COALESCE(excluded.dimensions, items.dimensions),
	qty=COALESCE(excluded.qty, items.qty),
	category=COALESCE(excluded.category, items.category);
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, r := range rows {
		code := strings.TrimSpace(r.Code)
		if code == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, code,
			nullString(r.Brand), nullString(r.Type), nullString(r.Shape),
			nullString(r.Dimensions), nullInt(r.Qty), nullString(r.Category)); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", code, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

const itemColumns = `id, code, brand, type, shape, dimensions, qty, category, product_group, pdf_page, pdf_text`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (Item, error) {
	var (
		it                                 Item
		code, brand, typ, shape, dims, cat sql.NullString
		group, text                        sql.NullString
		qty, page                          sql.NullInt64
	)
	if err := sc.Scan(&it.ID, &code, &brand, &typ, &shape, &dims, &qty, &cat, &group, &page, &text); err != nil {
		return Item{}, err
	}
	it.Code = code.String
	it.Brand = brand.String
	it.Type = typ.String
	it.Shape = shape.String
	it.Dimensions = dims.String
	it.Category = cat.String
	it.ProductGroup = group.String
	it.PDFText = text.String
	if qty.Valid {
		q := int(qty.Int64)
		it.Qty = &q
	}
	if page.Valid {
		p := int(page.Int64)
		it.PDFPage = &p
	}
	return it, nil
}

// Items returns every stored item in insertion order.
func (s *Store) Items(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ReferenceRows returns the stored catalog as reference rows, in insertion
// order.
func (s *Store) ReferenceRows(ctx context.Context) ([]model.ReferenceRow, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]model.ReferenceRow, len(items))
	for i, it := range items {
		rows[i] = it.ReferenceRow
	}
	return rows, nil
}

// Item returns the item stored under code.
func (s *Store) Item(ctx context.Context, code string) (Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE code = ?`, strings.TrimSpace(code))
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("item %s: %w", code, ErrNoRows)
	}
	return it, err
}

// AttachEntries enriches existing items with catalog entries extracted
// from a PDF. Codes are compared in normalized form; entries whose code is
// not stored are ignored, never inserted. For a matched item the page is
// overwritten, the product group is filled if empty, the entry texts are
// merged into pdf_text without repeats, and the dimension mentions of both
// the stored dimensions and the new text are unioned. It returns the
// number of items updated.
func (s *Store) AttachEntries(ctx context.Context, entries []model.CatalogEntry) (int, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}

	byCode := make(map[string]Item, len(items))
	for _, it := range items {
		k := codeKey(it.Code)
		if _, ok := byCode[k]; !ok {
			byCode[k] = it
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	n := 0
	for _, e := range entries {
		it, ok := byCode[codeKey(e.Code)]
		if !ok {
			continue
		}

		entryText := joinUnique(" | ", e.Author, e.ShortDescription, e.DimensionText)
		text := mergeText(it.PDFText, entryText)
		dims := unionDimensions(it.Dimensions, entryText)

		if _, err := tx.ExecContext(ctx, `
UPDATE items SET
	product_group=COALESCE(product_group, ?),
	pdf_page=?,
	pdf_text=?,
	dimensions=COALESCE(?, dimensions)
WHERE id=?`,
			nullString(e.Category), e.Page, nullString(text), nullString(dims), it.ID); err != nil {
			return 0, fmt.Errorf("attach %s: %w", it.Code, err)
		}

		it.PDFText = text
		it.Dimensions = dims
		byCode[codeKey(e.Code)] = it
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func codeKey(code string) string {
	if c, ok := textnorm.NormalizeCode(code); ok {
		return c
	}
	return strings.TrimSpace(code)
}

// joinUnique joins the non-empty, distinct trimmed parts with sep.
func joinUnique(sep string, parts ...string) string {
	seen := make(map[string]bool, len(parts))
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return strings.Join(out, sep)
}

// mergeText merges two " | " separated texts, keeping first occurrences.
func mergeText(existing, added string) string {
	return joinUnique(" | ", append(strings.Split(existing, "|"), strings.Split(added, "|")...)...)
}

// unionDimensions collects the distinct dimension mentions of vals. When
// none is found the first value is kept as is.
func unionDimensions(vals ...string) string {
	re := patterns.Get(patterns.DimensionMention)
	var found []string
	for _, v := range vals {
		found = append(found, re.FindAllString(v, -1)...)
	}
	if len(found) == 0 {
		return vals[0]
	}
	return joinUnique(", ", found...)
}
