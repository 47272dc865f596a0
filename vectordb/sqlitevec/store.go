package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/sovereign/db/sqliteutil"
	"github.com/viant/sovereign/vectordb"
	"github.com/viant/sovereign/vectordb/meta"
	"github.com/viant/sovereign/vectorstores"
	"github.com/viant/sqlite-vec/engine"
	"github.com/viant/sqlite-vec/vec"
	"github.com/viant/sqlite-vec/vector"
)

const (
	defaultDataset   = "default"
	defaultVTable    = "emb_docs"
	maxOpenConns     = 4
	shadowPrefix     = "_vec_"
	datasetTable     = "vec_dataset"
	createdAtLayout  = time.RFC3339Nano
	matchFetchFactor = 4
)

// Store is a sqlite-vec backed vectordb.Store. One dataset_id holds one collection.
type Store struct {
	db            *sql.DB
	dsn           string
	vtable        string
	shadow        string
	dataset       string
	ensureSchema  bool
	openedLocally bool
	bruteForce    atomic.Bool
}

// Option configures the sqlite-vec store.
type Option func(*Store)

// WithDB sets an existing *sql.DB to use.
func WithDB(db *sql.DB) Option {
	return func(s *Store) { s.db = db }
}

// WithDSN sets the SQLite DSN to open (e.g. /path/to/db.sqlite).
func WithDSN(dsn string) Option {
	return func(s *Store) { s.dsn = dsn }
}

// WithVTable sets the vec virtual table name (default: emb_docs).
func WithVTable(name string) Option {
	return func(s *Store) { s.vtable = name }
}

// WithDataset sets the collection stored as dataset_id.
func WithDataset(name string) Option {
	return func(s *Store) { s.dataset = name }
}

// WithEnsureSchema controls whether schema and indexes are created automatically.
func WithEnsureSchema(enabled bool) Option {
	return func(s *Store) { s.ensureSchema = enabled }
}

// NewStore opens/initializes a sqlite-vec Store.
func NewStore(ctx context.Context, opts ...Option) (*Store, error) {
	s := &Store{
		vtable:       defaultVTable,
		dataset:      defaultDataset,
		ensureSchema: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.vtable == "" {
		s.vtable = defaultVTable
	}
	if s.dataset == "" {
		s.dataset = defaultDataset
	}
	s.shadow = shadowPrefix + s.vtable

	if s.db == nil {
		if s.dsn == "" {
			return nil, fmt.Errorf("sqlitevec: dsn required")
		}
		if err := ensureParentDir(ctx, s.dsn); err != nil {
			return nil, err
		}
		db, err := engine.Open(sqliteutil.StorePragmas().Apply(s.dsn))
		if err != nil {
			return nil, err
		}
		s.db = db
		s.db.SetMaxOpenConns(maxOpenConns)
		s.db.SetMaxIdleConns(maxOpenConns)
		s.openedLocally = true
	}
	if err := vec.Register(s.db); err != nil {
		s.closeLocal()
		return nil, err
	}
	if s.ensureSchema {
		if err := s.ensureSchemaDDL(ctx); err != nil {
			s.closeLocal()
			return nil, err
		}
	}
	return s, nil
}

// Close closes the underlying DB if Store opened it.
func (s *Store) Close() error {
	if s.openedLocally && s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) closeLocal() {
	_ = s.Close()
}

// DB exposes the underlying sql.DB.
func (s *Store) DB() *sql.DB { return s.db }

// Dataset returns the collection name.
func (s *Store) Dataset() string { return s.dataset }

// Put inserts records in a single transaction.
func (s *Store) Put(ctx context.Context, records []*vectordb.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`INSERT OR IGNORE INTO %s(dataset_id, description, source_uri) VALUES(?, '', '')`, datasetTable), s.dataset); err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s(dataset_id, id, asset_id, content, meta, embedding, embedding_model, archived, created_at)
VALUES(?,?,?,?,?,?,?,0,?)`, s.shadow))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, record := range records {
		metaJSON, err := encodeMeta(record.Meta)
		if err != nil {
			return 0, err
		}
		blob, err := vector.EncodeEmbedding(record.Embedding)
		if err != nil {
			return 0, err
		}
		assetID := meta.GetString(record.Meta, meta.SourceKey)
		if assetID == "" {
			assetID = record.ID
		}
		createdAt := record.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, s.dataset, record.ID, assetID, record.Content, metaJSON, blob, record.Model, createdAt.UTC().Format(createdAtLayout)); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Count returns the number of live records in the dataset.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.count(ctx, s.dataset)
}

func (s *Store) count(ctx context.Context, dataset string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE dataset_id = ? AND archived = 0`, s.shadow), dataset).Scan(&count)
	return count, err
}

// Query performs a MATCH query over the vec virtual table, falling back to a
// brute-force cosine scan when the module is unavailable.
func (s *Store) Query(ctx context.Context, embedding []float32, k int, opts ...vectorstores.Option) ([]*vectordb.Match, error) {
	options := vectorstores.NewOptions(opts...)
	dataset := s.dataset
	if options.NameSpace != "" {
		dataset = options.NameSpace
	}
	if k <= 0 {
		return nil, nil
	}
	var exists int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE dataset_id = ? AND archived = 0)`, s.shadow), dataset).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, nil
	}
	if options.Source != "" || s.bruteForce.Load() {
		return s.scan(ctx, dataset, embedding, k, options)
	}
	blob, err := vector.EncodeEmbedding(embedding)
	if err != nil {
		return nil, err
	}
	matches, err := s.match(ctx, dataset, blob, (k+options.Offset)*matchFetchFactor)
	if err != nil {
		if !isVecUnavailable(err) {
			return nil, err
		}
		s.bruteForce.Store(true)
		return s.scan(ctx, dataset, embedding, k, options)
	}
	return trim(matches, k, options), nil
}

func (s *Store) match(ctx context.Context, dataset string, blob []byte, limit int) ([]*vectordb.Match, error) {
	query := fmt.Sprintf(`SELECT d.id, d.content, d.meta, d.embedding_model, d.created_at, v.match_score
FROM %s v
JOIN %s d ON d.dataset_id = v.dataset_id AND d.id = v.doc_id
WHERE v.dataset_id = ?
  AND v.doc_id MATCH ?
  AND d.archived = 0
ORDER BY v.match_score DESC
LIMIT ?`, s.vtable, s.shadow)

	rows, err := s.db.QueryContext(ctx, query, dataset, blob, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*vectordb.Match
	for rows.Next() {
		record := &vectordb.Record{}
		var metaJSON, model, createdAt sql.NullString
		var score float64
		if err := rows.Scan(&record.ID, &record.Content, &metaJSON, &model, &createdAt, &score); err != nil {
			return nil, err
		}
		if err := fillRecord(record, metaJSON, model, createdAt); err != nil {
			return nil, err
		}
		matches = append(matches, &vectordb.Match{Record: record, Score: float32(score)})
	}
	return matches, rows.Err()
}

func (s *Store) scan(ctx context.Context, dataset string, embedding []float32, k int, options *vectorstores.Options) ([]*vectordb.Match, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, content, meta, embedding, embedding_model, created_at
FROM %s WHERE dataset_id = ? AND archived = 0`, s.shadow), dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*vectordb.Record
	for rows.Next() {
		record := &vectordb.Record{}
		var metaJSON, model, createdAt sql.NullString
		var blob []byte
		if err := rows.Scan(&record.ID, &record.Content, &metaJSON, &blob, &model, &createdAt); err != nil {
			return nil, err
		}
		if err := fillRecord(record, metaJSON, model, createdAt); err != nil {
			return nil, err
		}
		if len(blob) > 0 {
			if record.Embedding, err = vector.DecodeEmbedding(blob); err != nil {
				return nil, err
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vectordb.Rank(records, embedding, k, options), nil
}

func (s *Store) ensureSchemaDDL(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			dataset_id   TEXT PRIMARY KEY,
			description  TEXT,
			source_uri   TEXT
		);`, datasetTable),
		`CREATE TABLE IF NOT EXISTS vector_storage (
			shadow_table_name TEXT NOT NULL,
			dataset_id        TEXT NOT NULL DEFAULT '',
			"index"           BLOB,
			PRIMARY KEY (shadow_table_name, dataset_id)
		);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			dataset_id       TEXT NOT NULL,
			id               TEXT NOT NULL,
			asset_id         TEXT NOT NULL,
			content          TEXT,
			meta             TEXT,
			embedding        BLOB,
			embedding_model  TEXT,
			archived         INTEGER NOT NULL DEFAULT 0,
			created_at       TEXT,
			PRIMARY KEY (dataset_id, id)
		);`, s.shadow),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_asset ON %s(dataset_id, asset_id);`, s.vtable, s.shadow),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_archived ON %s(dataset_id, archived);`, s.vtable, s.shadow),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec(doc_id);`, s.vtable)); err != nil {
		if !isVecUnavailable(err) {
			return err
		}
		s.bruteForce.Store(true)
	}
	return nil
}

func trim(matches []*vectordb.Match, k int, options *vectorstores.Options) []*vectordb.Match {
	out := matches[:0]
	for _, m := range matches {
		if options.MinScore > 0 && m.Score < options.MinScore {
			continue
		}
		out = append(out, m)
	}
	vectordb.SortMatches(out)
	if options.Offset > 0 {
		if options.Offset >= len(out) {
			return nil
		}
		out = out[options.Offset:]
	}
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func fillRecord(record *vectordb.Record, metaJSON, model, createdAt sql.NullString) error {
	var err error
	if record.Meta, err = decodeMeta(metaJSON.String); err != nil {
		return err
	}
	record.Model = model.String
	if createdAt.Valid && createdAt.String != "" {
		if ts, err := time.Parse(createdAtLayout, createdAt.String); err == nil {
			record.CreatedAt = ts
		}
	}
	return nil
}

func isVecUnavailable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such module: vec") ||
		strings.Contains(msg, "no such table: "+defaultVTable) ||
		strings.Contains(msg, "vec: ") ||
		strings.Contains(msg, "unable to use function MATCH")
}

func encodeMeta(metaIn map[string]interface{}) (string, error) {
	if metaIn == nil {
		metaIn = map[string]interface{}{}
	}
	data, err := json.Marshal(metaIn)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeMeta restores integral JSON numbers as int so records read back
// from SQLite match the ones that were written.
func decodeMeta(metaJSON string) (map[string]interface{}, error) {
	metaMap := map[string]interface{}{}
	if metaJSON == "" {
		return metaMap, nil
	}
	if err := json.Unmarshal([]byte(metaJSON), &metaMap); err != nil {
		return nil, err
	}
	for k, v := range metaMap {
		if f, ok := v.(float64); ok && f == float64(int(f)) {
			metaMap[k] = int(f)
		}
	}
	return metaMap, nil
}

func ensureParentDir(ctx context.Context, dsn string) error {
	path := sqliteutil.FilePath(dsn)
	if path == "" || sqliteutil.IsMemory(dsn) {
		return nil
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return err
	}
	fs := afs.New()
	if ok, _ := fs.Exists(ctx, dir); ok {
		return nil
	}
	if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("sqlitevec: create %v: %w", dir, err)
	}
	return nil
}
