package domain

import (
	"bytes"
	"testing"
)

func TestSetTextDeterministic(t *testing.T) {
	var first, second ExtractionJob
	first.SetText("1.2.3.4:80 US")
	second.SetText("1.2.3.4:80 US")

	if len(first.TextHash) != 32 {
		t.Fatalf("TextHash length = %d, want 32", len(first.TextHash))
	}
	if !bytes.Equal(first.TextHash, second.TextHash) {
		t.Fatal("same input produced different hashes")
	}

	var other ExtractionJob
	other.SetText("5.6.7.8 DE")
	if bytes.Equal(first.TextHash, other.TextHash) {
		t.Fatal("different inputs produced the same hash")
	}
}
