package tracelog

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFileLogger_WriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")

	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	first := NewEvent(CategorySet)
	first.Level = 75
	second := NewEvent(CategoryRelay)
	second.Level = 128
	second.Target = "amdgpu_bl0"

	l.Log(first)
	l.Log(second)
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := NewDecoder(f)
	var got []Event
	for {
		var e Event
		if err := dec.Decode(&e); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("decoding trace file: %v", err)
		}
		got = append(got, e)
	}

	if len(got) != 2 {
		t.Fatalf("read %d events, want 2", len(got))
	}
	if got[0].Category != CategorySet || got[0].Level != 75 {
		t.Errorf("event 0 = %+v, want SET level 75", got[0])
	}
	if got[1].Category != CategoryRelay || got[1].Target != "amdgpu_bl0" {
		t.Errorf("event 1 = %+v, want RELAY to amdgpu_bl0", got[1])
	}
}

func TestFileLogger_LogAfterCloseIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")
	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close should be nil, got %v", err)
	}

	l.Log(NewEvent(CategoryGet)) // must not panic

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("file size = %d after post-close log, want 0", info.Size())
	}
}
