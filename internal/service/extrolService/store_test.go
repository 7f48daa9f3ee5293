package extrolService

import (
	"testing"

	"github.com/KotFed0t/extrol_cli/internal/model"
)

func TestStoreMutations(t *testing.T) {
	s := &entryStore{}

	s.replaceAll([]model.Entry{entry("1", "2024-01-01", 10, ""), entry("2", "2024-02-01", 20, "")})
	if len(s.snapshot()) != 2 {
		t.Fatalf("replaceAll: got %d entries", len(s.snapshot()))
	}

	s.append(entry("3", "2024-03-01", 30, ""))
	if len(s.snapshot()) != 3 {
		t.Fatalf("append: got %d entries", len(s.snapshot()))
	}

	if ok := s.updateByID(entry("2", "2024-02-15", 25, "changed")); !ok {
		t.Fatalf("updateByID: expected hit")
	}
	if ok := s.updateByID(entry("missing", "2024-01-01", 1, "")); ok {
		t.Fatalf("updateByID: expected miss")
	}

	if ok := s.removeByID("1"); !ok {
		t.Fatalf("removeByID: expected hit")
	}
	if ok := s.removeByID("1"); ok {
		t.Fatalf("removeByID: expected miss on second call")
	}

	got := s.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries left, got %d", len(got))
	}

	s.reset()
	if len(s.snapshot()) != 0 {
		t.Fatalf("reset: store not empty")
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := &entryStore{}
	s.replaceAll([]model.Entry{entry("1", "2024-01-01", 10, "")})

	snap := s.snapshot()
	snap[0].Note = "mutated"

	if s.snapshot()[0].Note != "" {
		t.Fatalf("snapshot mutation leaked into the store")
	}
}
