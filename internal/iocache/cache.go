// Package iocache keeps results of inference runs in a Badger v4
// key-value store at ~/.cache/gnpia/inference. A result is found again
// only if the compiled file and every inference setting are the same.
package iocache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnpia/pkg/report"
	"github.com/gnames/gnsys"
	"github.com/gnames/gnuuid"
)

// Cache is a persistent store of reported protein rows.
type Cache struct {
	dir string
	db  *badger.DB
	enc gnfmt.GNgob
}

// New creates the cache directory if needed. Existing entries are kept.
func New(dir string) (*Cache, error) {
	if err := gnsys.MakeDir(dir); err != nil {
		return nil, CacheError("create", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// Open opens the Badger database of the cache.
func (c *Cache) Open() error {
	if c.db != nil {
		slog.Warn("Inference cache is already open")
		return nil
	}

	options := badger.DefaultOptions(c.dir)
	options.Logger = nil

	db, err := badger.Open(options)
	if err != nil {
		return CacheError("open", c.dir, err)
	}
	c.db = db
	slog.Debug("Inference cache opened", "dir", c.dir)
	return nil
}

// Close closes the Badger database, closing a closed cache is a no-op.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return CacheError("close", c.dir, err)
	}
	slog.Debug("Inference cache closed")
	return nil
}

// Key returns a fingerprint of the compiled file and inference
// settings. The file is identified by its absolute path, size and
// modification time, so recompiling to the same path changes the key.
func Key(compiledFile string, settings ...string) (string, error) {
	path, err := filepath.Abs(compiledFile)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	parts := []string{
		path,
		fmt.Sprintf("%d", fi.Size()),
		fmt.Sprintf("%d", fi.ModTime().UnixNano()),
	}
	parts = append(parts, settings...)
	return gnuuid.New(strings.Join(parts, "|")).String(), nil
}

// Get returns cached rows and true, or false if the key is unknown.
func (c *Cache) Get(key string) ([]report.Row, bool, error) {
	if c.db == nil {
		return nil, false, NotOpenError()
	}

	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false, CacheError("read", c.dir, err)
	}
	if val == nil {
		return nil, false, nil
	}

	var res []report.Row
	if err = c.enc.Decode(val, &res); err != nil {
		return nil, false, CacheError("decode", c.dir, err)
	}
	return res, true, nil
}

// Set stores rows under the key.
func (c *Cache) Set(key string, rows []report.Row) error {
	if c.db == nil {
		return NotOpenError()
	}
	val, err := c.enc.Encode(rows)
	if err != nil {
		return CacheError("encode", c.dir, err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
	if err != nil {
		return CacheError("write", c.dir, err)
	}
	return nil
}

// Clear removes all entries.
func (c *Cache) Clear() error {
	if c.db == nil {
		return NotOpenError()
	}
	if err := c.db.DropAll(); err != nil {
		return CacheError("clear", c.dir, err)
	}
	slog.Info("Inference cache cleared", "dir", c.dir)
	return nil
}
