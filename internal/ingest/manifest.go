package ingest

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	apperrors "lcpipe/internal/errors"
)

// ManifestEntry describes one generated CSV file.
type ManifestEntry struct {
	File       string `json:"file"`
	Bytes      int64  `json:"bytes"`
	Rows       int    `json:"rows"`
	Blake2b256 string `json:"blake2b_256"`
}

// Manifest records what an ingest run produced. It sits next to the CSVs
// as manifest.json so downstream consumers can detect modified or truncated
// inputs without re-parsing them.
type Manifest struct {
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
	Files     []ManifestEntry `json:"files"`
}

// writtenFile pairs an output path with the row count streamed into it.
type writtenFile struct {
	name string
	path string
	rows int
}

// buildManifest hashes the generated files concurrently and assembles the
// manifest. Entry order follows write order, not goroutine completion.
func buildManifest(ctx context.Context, source string, outputs []writtenFile) (*Manifest, error) {
	entries := make([]ManifestEntry, len(outputs))

	g, _ := errgroup.WithContext(ctx)
	for i, out := range outputs {
		g.Go(func() error {
			digest, size, err := hashFile(out.path)
			if err != nil {
				return err
			}
			entries[i] = ManifestEntry{
				File:       out.name,
				Bytes:      size,
				Rows:       out.rows,
				Blake2b256: digest,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Manifest{
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Files:     entries,
	}, nil
}

// hashFile returns the hex BLAKE2b-256 digest and byte size of a file.
func hashFile(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, apperrors.NewStorageError(
			fmt.Sprintf("open %s for hashing", path), err)
	}
	defer file.Close()

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(hasher, file)
	if err != nil {
		return "", 0, apperrors.NewStorageError(fmt.Sprintf("hash %s", path), err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), size, nil
}

// Write stores the manifest as indented JSON at path.
func (m *Manifest) Write(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create %s", path), err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("write %s", path), err)
	}
	return nil
}

// ReadManifest loads a previously written manifest.
func ReadManifest(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewAppError(apperrors.ErrTypeNotFound,
				fmt.Sprintf("manifest not found at %s", path), err)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("open %s", path), err)
	}
	defer file.Close()

	var manifest Manifest
	if err := json.NewDecoder(file).Decode(&manifest); err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("decode %s", path), err)
	}
	return &manifest, nil
}
