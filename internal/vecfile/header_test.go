package vecfile

import (
	"path/filepath"
	"testing"
)

func TestOpenOrInitFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")

	f, hdr, err := OpenOrInit(path, 4)
	if err != nil {
		t.Fatalf("OpenOrInit: %v", err)
	}
	defer f.Close()

	if hdr.VectorCount != 0 {
		t.Errorf("expected vector_count 0, got %d", hdr.VectorCount)
	}
	if hdr.Dimensions != 4 {
		t.Errorf("expected dimensions 4, got %d", hdr.Dimensions)
	}

	pos, err := f.Seek(0, 1)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos != HeaderSize {
		t.Errorf("expected cursor at %d, got %d", HeaderSize, pos)
	}
}

func TestOpenOrInitReopenPreservesDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")

	f1, _, err := OpenOrInit(path, 8)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	hdr := Header{VectorCount: 3, Dimensions: 8}
	if err := WriteHeader(f1, hdr); err != nil {
		t.Fatalf("write header: %v", err)
	}
	f1.Close()

	f2, hdr2, err := OpenOrInit(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f2.Close()

	if hdr2.VectorCount != 3 || hdr2.Dimensions != 8 {
		t.Errorf("expected preserved header {3,8}, got %+v", hdr2)
	}
}

func TestOpenOrInitCallerDimensionsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")

	f1, _, err := OpenOrInit(path, 4)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	f1.Close()

	f2, hdr2, err := OpenOrInit(path, 6)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer f2.Close()

	if hdr2.Dimensions != 6 {
		t.Errorf("expected caller dimensions 6 to win, got %d", hdr2.Dimensions)
	}
}

func TestStreamBufferRecordsClamped(t *testing.T) {
	small := StreamBufferRecords(4, 1) // tiny target -> clamp to 512
	if small < 512 {
		t.Errorf("expected clamp to >= 512, got %d", small)
	}
	huge := StreamBufferRecords(4, 1 << 30) // huge target -> clamp to 8192
	if huge > 8192 {
		t.Errorf("expected clamp to <= 8192, got %d", huge)
	}
	if huge%16 != 0 {
		t.Errorf("expected 16-aligned record count, got %d", huge)
	}
}

func TestRecordEncodeDecodeRoundTrip(t *testing.T) {
	vec := []float32{1.5, -2.25, 0, 3.125}
	buf := EncodeRecord(nil, 42, vec)
	if len(buf) != RecordSize(len(vec)) {
		t.Fatalf("expected %d bytes, got %d", RecordSize(len(vec)), len(buf))
	}

	out := make([]float32, len(vec))
	id := DecodeRecord(buf, out)
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}
	for i := range vec {
		if out[i] != vec[i] {
			t.Errorf("component %d: want %v, got %v", i, vec[i], out[i])
		}
	}
	if got := DecodeID(buf); got != 42 {
		t.Errorf("DecodeID: want 42, got %d", got)
	}
}
