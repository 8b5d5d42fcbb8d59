package adminimport

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDescriptor(t *testing.T, dir, name string, desc mapDescriptor) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(desc); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
}

func TestCollectDirHexEncodesSHA1(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "map1.json", mapDescriptor{
		SHA1:     []byte{0xde, 0xad, 0xbe, 0xef},
		Path:     "maps/map1.w3x",
		Checksum: 123456,
	})

	items, err := CollectDir(dir)
	if err != nil {
		t.Fatalf("CollectDir: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].SHA1 != "deadbeef" {
		t.Fatalf("SHA1 = %q, want %q", items[0].SHA1, "deadbeef")
	}
	if items[0].Checksum != 123456 {
		t.Fatalf("Checksum = %d, want 123456", items[0].Checksum)
	}
}

func TestCollectDirMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "a.json", mapDescriptor{SHA1: []byte{0x01}, Checksum: 1})
	writeDescriptor(t, dir, "b.json", mapDescriptor{SHA1: []byte{0x02}, Checksum: 2})

	items, err := CollectDir(dir)
	if err != nil {
		t.Fatalf("CollectDir: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}

func TestCollectDirInvalidJSONAbortsBatch(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "a.json", mapDescriptor{SHA1: []byte{0x01}, Checksum: 1})
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}

	if _, err := CollectDir(dir); err == nil {
		t.Fatal("expected an error from the malformed descriptor")
	}
}

type fakeImporter struct {
	received []ChecksumItem
	err      error
}

func (f *fakeImporter) ImportMapChecksums(ctx context.Context, items []ChecksumItem) error {
	if f.err != nil {
		return f.err
	}
	f.received = items
	return nil
}

func TestRunSubmitsCollectedBatch(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "a.json", mapDescriptor{SHA1: []byte{0xaa}, Checksum: 7})

	importer := &fakeImporter{}
	n, err := Run(context.Background(), dir, importer)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if len(importer.received) != 1 || importer.received[0].SHA1 != "aa" {
		t.Fatalf("unexpected batch: %+v", importer.received)
	}
}

func TestRunEmptyDirSkipsImporter(t *testing.T) {
	dir := t.TempDir()
	importer := &fakeImporter{err: errors.New("should not be called")}

	n, err := Run(context.Background(), dir, importer)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 0 {
		t.Fatalf("n = %d, want 0", n)
	}
}

func TestRunPropagatesImporterError(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "a.json", mapDescriptor{SHA1: []byte{0x01}, Checksum: 1})

	importer := &fakeImporter{err: errors.New("rpc unavailable")}
	if _, err := Run(context.Background(), dir, importer); err == nil {
		t.Fatal("expected the importer error to propagate")
	}
}
