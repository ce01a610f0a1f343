package holdings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// =============================================================================
// Index Serialization API
// =============================================================================

// MarshalIndex converts an index to pretty-printed JSON bytes.
func MarshalIndex(idx *Index) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeIndexTo(idx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteIndexFile writes an index to a JSON file.
// The file is created with 0644 permissions.
func WriteIndexFile(idx *Index, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeIndexTo(idx, f)
}

// ReadIndexFile reads a JSON file and returns the decoded, validated index.
func ReadIndexFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadIndex(f)
}

// ReadIndex decodes a JSON index from an io.Reader and validates its
// cross-references.
func ReadIndex(r io.Reader) (*Index, error) {
	var idx Index
	if err := json.NewDecoder(r).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if idx.Entities == nil {
		idx.Entities = map[string]*Entity{}
	}
	if idx.Assets == nil {
		idx.Assets = map[string]*Asset{}
	}
	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Validate checks the index invariants: referential symmetry between
// entities and assets, and that AssetOrder covers exactly the asset set.
func (idx *Index) Validate() error {
	for sym, asset := range idx.Assets {
		for _, holder := range asset.Entities {
			e, ok := idx.Entities[holder]
			if !ok {
				return fmt.Errorf("asset %s: unknown holder %q", sym, holder)
			}
			if _, ok := e.Assets[sym]; !ok {
				return fmt.Errorf("asset %s: holder %q has no matching holding", sym, holder)
			}
		}
	}
	for name, e := range idx.Entities {
		for sym := range e.Assets {
			a, ok := idx.Assets[sym]
			if !ok {
				return fmt.Errorf("entity %s: unknown asset %q", name, sym)
			}
			if !slices.Contains(a.Entities, name) {
				return fmt.Errorf("entity %s: not listed as holder of %q", name, sym)
			}
		}
	}
	if len(idx.AssetOrder) != len(idx.Assets) {
		return fmt.Errorf("asset_order lists %d symbols, index has %d assets",
			len(idx.AssetOrder), len(idx.Assets))
	}
	for _, sym := range idx.AssetOrder {
		if _, ok := idx.Assets[sym]; !ok {
			return fmt.Errorf("asset_order references unknown asset %q", sym)
		}
	}
	return nil
}

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// MarshalSnapshot converts a snapshot to pretty-printed JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSnapshotFile writes a snapshot to a JSON file.
func WriteSnapshotFile(s Snapshot, path string) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadSnapshotFile reads a JSON snapshot file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// ReadSnapshot decodes a JSON snapshot from an io.Reader.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	if s.Raw == nil {
		s.Raw = map[string]RawRecord{}
	}
	return s, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeIndexTo(idx *Index, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
