package tracelog

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	original := Event{
		Timestamp: ts,
		EventID:   "8f14e45f-ceea-467f-a84e-55bca06c7d1b",
		Category:  CategoryRelay,
		Method:    "LEVEL",
		Mode:      "SET",
		Level:     128,
		Target:    "amdgpu_bl0",
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.EventID != original.EventID {
		t.Errorf("EventID: got %q, want %q", decoded.EventID, original.EventID)
	}
	if decoded.Category != original.Category {
		t.Errorf("Category: got %v, want %v", decoded.Category, original.Category)
	}
	if decoded.Method != original.Method || decoded.Mode != original.Mode {
		t.Errorf("Method/Mode: got %q/%q, want %q/%q",
			decoded.Method, decoded.Mode, original.Method, original.Mode)
	}
	if decoded.Level != original.Level {
		t.Errorf("Level: got %d, want %d", decoded.Level, original.Level)
	}
	if decoded.Target != original.Target {
		t.Errorf("Target: got %q, want %q", decoded.Target, original.Target)
	}
}

func TestErrorEventRoundTrip(t *testing.T) {
	original := NewEvent(CategoryResume)
	original.Err = "EC backlight control failed: AE_TIME"

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.Err != original.Err {
		t.Errorf("Err: got %q, want %q", decoded.Err, original.Err)
	}
}

func TestNewEvent_PopulatesIDAndTimestamp(t *testing.T) {
	e1 := NewEvent(CategoryGet)
	e2 := NewEvent(CategoryGet)

	if e1.EventID == "" || e2.EventID == "" {
		t.Fatal("NewEvent should assign an event ID")
	}
	if e1.EventID == e2.EventID {
		t.Error("event IDs should be unique")
	}
	if e1.Timestamp.IsZero() {
		t.Error("NewEvent should stamp the current time")
	}
	if e1.Category != CategoryGet {
		t.Errorf("Category = %v, want CategoryGet", e1.Category)
	}
}

func TestCategoryString(t *testing.T) {
	tests := map[Category]string{
		CategoryProbe:  "PROBE",
		CategoryBind:   "BIND",
		CategoryGet:    "GET",
		CategorySet:    "SET",
		CategoryRelay:  "RELAY",
		CategoryResume: "RESUME",
		CategoryRemove: "REMOVE",
		Category(42):   "UNKNOWN",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("Category(%d).String() = %q, want %q", c, got, want)
		}
	}
}
