package dbtypes

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDArrayRoundTrip(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	value, err := UUIDArray{first, second}.Value()
	if err != nil {
		t.Fatalf("Value() failed: %v", err)
	}

	var scanned UUIDArray
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != first || scanned[1] != second {
		t.Fatalf("unexpected round trip result: %v", scanned)
	}
}

func TestUUIDArrayScanEmpty(t *testing.T) {
	var scanned UUIDArray
	if err := scanned.Scan("{}"); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(scanned) != 0 {
		t.Fatalf("expected empty array, got %v", scanned)
	}
}

func TestUUIDArrayContains(t *testing.T) {
	id := uuid.New()
	arr := UUIDArray{id}
	if !arr.Contains(id) {
		t.Fatal("expected Contains to find id")
	}
	if arr.Contains(uuid.New()) {
		t.Fatal("unexpected Contains match")
	}
}
