// Package store persists the timer snapshot locally so that an interrupted
// process can resume where it left off
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/osutil"
)

const (
	snapshotBucket = "snapshot"
	currentKey     = "current"
)

var errAlreadyRunning = errors.New(
	"is studyfocus already running? Only one instance can be active at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// SaveSnapshot overwrites the stored snapshot.
func (c *Client) SaveSnapshot(snap *models.Snapshot) error {
	value, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(snapshotBucket)).Put([]byte(currentKey), value)
	})
}

// LoadSnapshot returns the stored snapshot or nil if nothing was saved. A
// snapshot that cannot be decoded is reported as an error.
func (c *Client) LoadSnapshot() (*models.Snapshot, error) {
	var snap *models.Snapshot

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotBucket)).Get([]byte(currentKey))
		if len(b) == 0 {
			return nil
		}

		snap = &models.Snapshot{}

		return json.Unmarshal(b, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return snap, nil
}

// DeleteSnapshot removes the stored snapshot.
func (c *Client) DeleteSnapshot() error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(snapshotBucket)).Delete([]byte(currentKey))
	})
}

// open creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	err := os.MkdirAll(filepath.Dir(dbPath), osutil.DirPermission)
	if err != nil {
		return nil, err
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
