// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/cfbench/internal/recommend"
)

const fileSuffix = ".gob.gz"

// ErrChecksumMismatch is returned when a cache file's payload does not match
// its recorded checksum.
var ErrChecksumMismatch = errors.New("cache file checksum mismatch")

// FileCache stores one file per cached result:
//
//	{dir}/user_{id}_{hash}.gob.gz
//
// Each file holds a gob-encoded header and the gzip-compressed gob payload.
// The header records the payload's SHA-256 checksum and save time.
type FileCache struct {
	dir string
	ttl time.Duration
	mu  sync.RWMutex

	now func() time.Time
}

// storedFile is the on-disk format.
type storedFile struct {
	Checksum       string
	SavedAt        time.Time
	CompressedData []byte
}

// NewFileCache creates the directory if needed. A zero ttl keeps entries forever.
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for cache storage
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &FileCache{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Path returns the file a key is stored in.
func (f *FileCache) Path(key recommend.CacheKey) string {
	return filepath.Join(f.dir, fmt.Sprintf("user_%d_%s%s", key.UserID, key.InputHash, fileSuffix))
}

// Get implements recommend.Cache.
func (f *FileCache) Get(ctx context.Context, key recommend.CacheKey) (recommend.UserResult, error) {
	if err := ctx.Err(); err != nil {
		return recommend.UserResult{}, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	file, err := os.Open(f.Path(key)) //nolint:gosec // path is built from numeric id and hex hash
	if errors.Is(err, fs.ErrNotExist) {
		return recommend.UserResult{}, recommend.ErrCacheMiss
	}
	if err != nil {
		return recommend.UserResult{}, fmt.Errorf("open cache file: %w", err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(file).Decode(&sf); err != nil {
		return recommend.UserResult{}, fmt.Errorf("read cache file: %w", err)
	}

	if f.ttl > 0 && f.now().Sub(sf.SavedAt) > f.ttl {
		return recommend.UserResult{}, recommend.ErrCacheMiss
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return recommend.UserResult{}, fmt.Errorf("decompress cache file: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return recommend.UserResult{}, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Checksum {
		return recommend.UserResult{}, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Checksum, checksum)
	}

	var r record
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&r); err != nil {
		return recommend.UserResult{}, fmt.Errorf("decode cached result: %w", err)
	}
	return r.result(), nil
}

// Set implements recommend.Cache. The file is written to a temporary name
// and renamed into place.
func (f *FileCache) Set(ctx context.Context, key recommend.CacheKey, result recommend.UserResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(newRecord(result)); err != nil {
		return fmt.Errorf("encode cached result: %w", err)
	}
	raw := buf.Bytes()
	hash := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return fmt.Errorf("compress cached result: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	sf := storedFile{
		Checksum:       hex.EncodeToString(hash[:]),
		SavedAt:        f.now(),
		CompressedData: compressed.Bytes(),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close()        //nolint:errcheck // write error takes precedence
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path(key)); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

// Prune removes expired entries and returns how many were deleted. With a
// zero ttl nothing expires.
func (f *FileCache) Prune(ctx context.Context) (int, error) {
	if f.ttl <= 0 {
		return 0, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, fmt.Errorf("read cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		savedAt, err := readSavedAt(path)
		if err != nil {
			continue
		}
		if f.now().Sub(savedAt) > f.ttl {
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("remove expired cache file: %w", err)
			}
			removed++
		}
	}
	return removed, nil
}

// Close is a no-op; files stay on disk.
func (f *FileCache) Close() error {
	return nil
}

func readSavedAt(path string) (time.Time, error) {
	file, err := os.Open(path) //nolint:gosec // path comes from the cache directory listing
	if err != nil {
		return time.Time{}, err
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // read-only file

	var sf storedFile
	if err := gob.NewDecoder(file).Decode(&sf); err != nil {
		return time.Time{}, err
	}
	return sf.SavedAt, nil
}
