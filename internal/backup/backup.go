// Package backup snapshots the SQLite database into object storage and keeps
// a bounded number of snapshots.
package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/ezdocs-api/internal/storage"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

const (
	Prefix      = "backups/"
	keyLayout   = "2006-01-02T15-04-05Z"
	contentType = "application/gzip"
)

type Service struct {
	storage storage.Storage
	db      *sqlx.DB
	keep    int
	logger  *utils.Logger
	now     func() time.Time
}

func NewService(store storage.Storage, db *sqlx.DB, keep int, logger *utils.Logger) *Service {
	if keep < 1 {
		keep = 1
	}
	return &Service{
		storage: store,
		db:      db,
		keep:    keep,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run uploads one snapshot and prunes the oldest ones beyond the keep limit.
// It returns the key of the new snapshot.
func (s *Service) Run(ctx context.Context) (string, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}

	key := Key(s.now())
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	s.logger.Info("Backup uploaded", "key", key, "bytes", len(data))

	if err := s.rotate(ctx); err != nil {
		return key, err
	}

	return key, nil
}

// Key names the snapshot taken at t.
func Key(t time.Time) string {
	return Prefix + "ezdocs-" + t.UTC().Format(keyLayout) + ".db.gz"
}

// snapshot copies the live database with VACUUM INTO, which is consistent
// under concurrent writers, and gzips the copy.
func (s *Service) snapshot(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "ezdocs-backup-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return nil, fmt.Errorf("failed to snapshot database: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := io.Copy(gz, f); err != nil {
		return nil, fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress snapshot: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *Service) rotate(ctx context.Context) error {
	objects, err := s.storage.List(ctx, Prefix)
	if err != nil {
		return err
	}

	if len(objects) <= s.keep {
		s.logger.Debug("No backups to prune", "count", len(objects), "keep", s.keep)
		return nil
	}

	// Newest first. Keys embed the timestamp, so they break ties.
	sort.Slice(objects, func(i, j int) bool {
		if !objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].LastModified.After(objects[j].LastModified)
		}
		return objects[i].Key > objects[j].Key
	})

	var failed int
	for _, obj := range objects[s.keep:] {
		if err := s.storage.Delete(ctx, obj.Key); err != nil {
			s.logger.Error("Failed to delete old backup", "key", obj.Key, "error", err)
			failed++
			continue
		}
		s.logger.Info("Deleted old backup", "key", obj.Key)
	}
	if failed > 0 {
		return fmt.Errorf("failed to delete %d old backups", failed)
	}

	return nil
}
