// Package adminimport implements the map checksum import admin tool:
// it walks a directory of per-map JSON descriptors and submits them to
// a controller-side importer as one batch.
package adminimport

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ChecksumItem is one map's checksum record, ready to submit.
type ChecksumItem struct {
	SHA1     string
	Checksum uint32
}

// Importer is the controller's map-checksum-import RPC, modeled as a
// narrow interface per spec.md §6 — the real implementation is a gRPC
// client carrying a shared secret in its call metadata, which this
// package never needs to know about.
type Importer interface {
	ImportMapChecksums(ctx context.Context, items []ChecksumItem) error
}

// mapDescriptor is the on-disk JSON shape this tool reads: one file
// per map, holding the raw 20-byte SHA1 and the map's checksum.
type mapDescriptor struct {
	SHA1     []byte `json:"sha1"`
	Path     string `json:"path"`
	Checksum uint32 `json:"checksum"`
}

// CollectDir walks dir (non-recursively, matching the source tool's
// flat layout) and decodes every non-directory entry, whatever its name or
// extension, as JSON into a ChecksumItem. A file
// that fails to parse aborts the whole batch rather than silently
// skipping a map.
func CollectDir(dir string) ([]ChecksumItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	items := make([]ChecksumItem, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		item, err := decodeFile(path)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeFile(path string) (ChecksumItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return ChecksumItem{}, err
	}
	defer f.Close()

	var desc mapDescriptor
	if err := json.NewDecoder(f).Decode(&desc); err != nil {
		return ChecksumItem{}, err
	}
	return ChecksumItem{
		SHA1:     hex.EncodeToString(desc.SHA1),
		Checksum: desc.Checksum,
	}, nil
}

// Run collects every map descriptor under dir and submits them to
// importer as a single batch.
func Run(ctx context.Context, dir string, importer Importer) (int, error) {
	items, err := CollectDir(dir)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}
	if err := importer.ImportMapChecksums(ctx, items); err != nil {
		return 0, fmt.Errorf("import map checksums: %w", err)
	}
	return len(items), nil
}
