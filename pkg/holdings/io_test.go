package holdings

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestIndexFileRoundTrip(t *testing.T) {
	idx := Aggregate(sampleRaw())
	path := filepath.Join(t.TempDir(), "index.json")

	if err := WriteIndexFile(idx, path); err != nil {
		t.Fatalf("WriteIndexFile: %v", err)
	}
	got, err := ReadIndexFile(path)
	if err != nil {
		t.Fatalf("ReadIndexFile: %v", err)
	}
	if !reflect.DeepEqual(idx, got) {
		t.Error("round-trip changed the index")
	}
}

func TestMarshalIndexFieldNames(t *testing.T) {
	data, err := MarshalIndex(Aggregate(sampleRaw()))
	if err != nil {
		t.Fatalf("MarshalIndex: %v", err)
	}
	// The wire field names are a contract with downstream consumers.
	for _, field := range []string{
		`"entities"`, `"assets"`, `"total_value"`, `"total_quantity"`,
		`"quantity"`, `"value_usd"`, `"name"`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("marshaled index missing field %s", field)
		}
	}
}

func TestReadIndexRejectsBrokenReferences(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			"unknown holder",
			`{"entities":{},"assets":{"X":{"symbol":"X","name":"X","entities":["ghost"],"total_quantity":0,"total_value":1}},"asset_order":["X"]}`,
		},
		{
			"asset_order mismatch",
			`{"entities":{},"assets":{},"asset_order":["X"]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadIndex(strings.NewReader(tt.json)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	snap := NewSnapshot(sampleRaw())
	if snap.ID == "" {
		t.Fatal("NewSnapshot should assign an ID")
	}
	path := filepath.Join(t.TempDir(), "holdings.json")

	if err := WriteSnapshotFile(snap, path); err != nil {
		t.Fatalf("WriteSnapshotFile: %v", err)
	}
	got, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("ReadSnapshotFile: %v", err)
	}
	if got.ID != snap.ID {
		t.Errorf("ID = %q, want %q", got.ID, snap.ID)
	}
	if !got.FetchedAt.Equal(snap.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, snap.FetchedAt)
	}
	if !reflect.DeepEqual(got.Raw, snap.Raw) {
		t.Error("round-trip changed raw records")
	}
}
