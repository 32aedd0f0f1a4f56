package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/infra/memstore"
	"github.com/xavierca1/prospection-crm/internal/record"
)

const bucketProspects = "prospects"

// Store keeps prospects in memory and snapshots them to a single SQLite
// table after every successful mutation.
type Store struct {
	*memstore.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (or creates) the database at path and loads the last
// snapshot.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "prospection.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	s := &Store{Store: memstore.New(), db: db, path: path}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM state WHERE bucket = ?`, bucketProspects).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}

	var items []record.ProspectRecord
	if err := json.Unmarshal(payload, &items); err != nil {
		return fmt.Errorf("decode prospects: %w", err)
	}
	s.ImportState(items)
	return nil
}

// commit runs one memstore mutation and snapshots the result. When the
// snapshot cannot be written the previous state is restored, so a failed
// call leaves nothing behind.
func commit[T any](ctx context.Context, s *Store, mutate func() (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	before := s.ExportState()
	out, err := mutate()
	if err != nil {
		return zero, err
	}
	if err := s.persist(ctx); err != nil {
		s.ImportState(before)
		return zero, err
	}
	return out, nil
}

// persist writes the whole state. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.ExportState())
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", entity.ErrRemoteUnavailable, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
		bucketProspects, data); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", entity.ErrRemoteUnavailable, bucketProspects, err)
	}
	return nil
}

func (s *Store) InsertProspect(ctx context.Context, fields record.Fields) (*record.ProspectRecord, error) {
	return commit(ctx, s, func() (*record.ProspectRecord, error) {
		return s.Store.InsertProspect(ctx, fields)
	})
}

func (s *Store) UpdateProspect(ctx context.Context, id string, fields record.Fields) (*record.ProspectRecord, error) {
	return commit(ctx, s, func() (*record.ProspectRecord, error) {
		return s.Store.UpdateProspect(ctx, id, fields)
	})
}

func (s *Store) DeleteProspect(ctx context.Context, id string) error {
	_, err := commit(ctx, s, func() (struct{}, error) {
		return struct{}{}, s.Store.DeleteProspect(ctx, id)
	})
	return err
}

func (s *Store) InsertInteraction(ctx context.Context, fields record.Fields) (*record.InteractionRecord, error) {
	return commit(ctx, s, func() (*record.InteractionRecord, error) {
		return s.Store.InsertInteraction(ctx, fields)
	})
}

// DB exposes the handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }
