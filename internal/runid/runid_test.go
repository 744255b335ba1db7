package runid

import "testing"

func TestForBatch_Deterministic(t *testing.T) {
	a := ForBatch("wildcard-xi", "FIXED", 12345, 1000)
	b := ForBatch("wildcard-xi", "FIXED", 12345, 1000)
	if a != b {
		t.Errorf("identical inputs produced different IDs: %s vs %s", a, b)
	}
}

func TestForBatch_InputsChangeID(t *testing.T) {
	base := ForBatch("wildcard-xi", "FIXED", 12345, 1000)

	variants := []string{
		ForBatch("bench-boost", "FIXED", 12345, 1000),
		ForBatch("wildcard-xi", "SESSION", 12345, 1000),
		ForBatch("wildcard-xi", "FIXED", 12346, 1000),
		ForBatch("wildcard-xi", "FIXED", 12345, 999),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base ID %s", i, base)
		}
	}
}

func TestForBatch_NonEmpty(t *testing.T) {
	id := ForBatch("", "", 0, 0)
	if id == "" {
		t.Error("run ID should never be empty")
	}
}
