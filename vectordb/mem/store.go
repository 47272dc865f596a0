package mem

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/sovereign/vectordb"
	"github.com/viant/sovereign/vectorstores"
)

const (
	defaultCollection = "default"
	fileExt           = ".vdb"
	tmpSuffix         = ".tmp"
)

// Store keeps one collection of records in memory. With a base URL it loads
// the collection on start and rewrites the file after every Put. The new
// snapshot is written next to the collection file and moved over it.
//
// The file lock serialises whole-snapshot writes only: two processes sharing
// a collection each write their own in-memory view, so the last writer wins
// and the other process's new records are lost.
type Store struct {
	baseURL    string
	collection string
	fs         afs.Service
	records    []*vectordb.Record
	sync.RWMutex
}

// Option configures the in-memory store.
type Option func(*Store)

// WithBaseURL sets the directory (or afs URL) holding collection files.
func WithBaseURL(baseURL string) Option {
	return func(s *Store) { s.baseURL = baseURL }
}

// WithCollection sets the collection name.
func WithCollection(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.collection = name
		}
	}
}

// WithFS sets the afs service used for persistence.
func WithFS(fs afs.Service) Option {
	return func(s *Store) { s.fs = fs }
}

// NewStore creates a store and loads a previously persisted collection.
func NewStore(ctx context.Context, opts ...Option) (*Store, error) {
	ret := &Store{collection: defaultCollection}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.baseURL != "" {
		ret.baseURL = normalizeURL(ret.baseURL)
		if err := ret.load(ctx); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// URL returns the collection file location, or "" for a volatile store.
func (s *Store) URL() string {
	if s.baseURL == "" {
		return ""
	}
	return url.Join(s.baseURL, s.collection+fileExt)
}

// snapshotURL is where a new snapshot is written before it replaces URL.
// It keeps the collection extension so afs.Move treats URL as a file name.
func (s *Store) snapshotURL() string {
	return url.Join(s.baseURL, s.collection+tmpSuffix+fileExt)
}

func (s *Store) Put(ctx context.Context, records []*vectordb.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	s.Lock()
	defer s.Unlock()
	prev := len(s.records)
	s.records = append(s.records, records...)
	if err := s.persist(ctx); err != nil {
		s.records = s.records[:prev]
		return 0, err
	}
	return len(records), nil
}

func (s *Store) Query(ctx context.Context, vector []float32, k int, opts ...vectorstores.Option) ([]*vectordb.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	options := vectorstores.NewOptions(opts...)
	s.RLock()
	defer s.RUnlock()
	return vectordb.Rank(s.records, vector, k, options), nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.RLock()
	defer s.RUnlock()
	return len(s.records), nil
}

// Close is a no-op; every Put is already persisted.
func (s *Store) Close() error { return nil }

func (s *Store) load(ctx context.Context) error {
	URL := s.URL()
	ok, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("mem: stat %v: %w", URL, err)
	}
	if !ok {
		// a crash between writing the snapshot and moving it leaves only the tmp file
		if ok, _ = s.fs.Exists(ctx, s.snapshotURL()); !ok {
			return nil
		}
		URL = s.snapshotURL()
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("mem: read %v: %w", URL, err)
	}
	records, err := vectordb.DecodeRecords(data)
	if err != nil {
		return fmt.Errorf("mem: decode %v: %w", URL, err)
	}
	s.records = records
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	if s.baseURL == "" {
		return nil
	}
	data, err := vectordb.EncodeRecords(s.records)
	if err != nil {
		return err
	}
	URL := s.URL()
	unlock, err := s.lockFile(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	tmp := s.snapshotURL()
	if err := s.fs.Upload(ctx, tmp, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		_ = s.fs.Delete(ctx, tmp)
		return fmt.Errorf("mem: write %v: %w", tmp, err)
	}
	if err := s.fs.Move(ctx, tmp, URL); err != nil {
		return fmt.Errorf("mem: move %v: %w", tmp, err)
	}
	return nil
}

// lockFile takes an exclusive OS lock next to local collection files so two
// processes never interleave writes.
func (s *Store) lockFile(ctx context.Context) (func(), error) {
	if url.Scheme(s.baseURL, file.Scheme) != file.Scheme {
		return func() {}, nil
	}
	if ok, _ := s.fs.Exists(ctx, s.baseURL); !ok {
		if err := s.fs.Create(ctx, s.baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("mem: create %v: %w", s.baseURL, err)
		}
	}
	lock := flock.New(url.Path(s.URL()) + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("mem: lock %v: %w", s.URL(), err)
	}
	return func() { _ = lock.Unlock() }, nil
}

func normalizeURL(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}
