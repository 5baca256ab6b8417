package results

import (
	"testing"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
)

func seeded(t *testing.T) *Store {
	t.Helper()

	store := New(zap.NewNop())
	store.ReplaceAll([]*candidate.Candidate{
		{ID: "a", Name: "Asha", JDFit: candidate.Float(91)},
		{ID: "b", Name: "Bilal", JDFit: candidate.Float(74)},
		{Name: "No ID", JDFit: candidate.Float(55)},
	})
	return store
}

func TestReplaceAllAssignsPositions(t *testing.T) {
	t.Parallel()

	store := New(nil)
	store.ReplaceAll([]*candidate.Candidate{{ID: "a"}, nil, {ID: "c"}})

	snapshot := store.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected nil entries to be skipped, got %d items", len(snapshot))
	}
	for idx, c := range snapshot {
		if c.Position != idx {
			t.Fatalf("expected position %d, got %d", idx, c.Position)
		}
	}

	store.ReplaceAll(nil)
	if store.Len() != 0 {
		t.Fatalf("expected empty set, got %d", store.Len())
	}
}

func TestPatchOneKeepsOrderAndLength(t *testing.T) {
	t.Parallel()

	store := seeded(t)

	ok := store.PatchOne(&candidate.Candidate{ID: "b", AIInterviewScore: candidate.Float(4.5)})
	if !ok {
		t.Fatalf("expected patch to find candidate b")
	}

	snapshot := store.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("expected 3 items, got %d", len(snapshot))
	}

	names := []string{"Asha", "Bilal", "No ID"}
	for idx, c := range snapshot {
		if c.Name != names[idx] {
			t.Fatalf("expected %s at %d, got %s", names[idx], idx, c.Name)
		}
	}

	patched := snapshot[1]
	if !patched.HasAIInterview() || *patched.AIInterviewScore != 4.5 {
		t.Fatalf("expected ai interview score 4.5, got %v", patched.AIInterviewScore)
	}
	if patched.JDFit == nil || *patched.JDFit != 74 {
		t.Fatalf("expected jd fit to survive the patch, got %v", patched.JDFit)
	}
	if snapshot[0].HasAIInterview() || snapshot[2].HasAIInterview() {
		t.Fatalf("expected other candidates to be untouched")
	}
}

func TestPatchOneUnknownKeyIsNoop(t *testing.T) {
	t.Parallel()

	store := seeded(t)
	before := store.Snapshot()

	if store.PatchOne(&candidate.Candidate{ID: "zzz", Name: "Ghost"}) {
		t.Fatalf("expected unknown key to be ignored")
	}
	if store.PatchOne(nil) {
		t.Fatalf("expected nil patch to be ignored")
	}

	after := store.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("expected length %d, got %d", len(before), len(after))
	}
	for idx := range after {
		if after[idx].Name != before[idx].Name {
			t.Fatalf("unexpected change at %d: %s", idx, after[idx].Name)
		}
	}
}

func TestPatchOneByPosition(t *testing.T) {
	t.Parallel()

	store := seeded(t)

	if !store.PatchOne(&candidate.Candidate{Position: 2, Communication: candidate.Float(8)}) {
		t.Fatalf("expected positional patch to land")
	}

	got := store.Find("pos:2")
	if got == nil || got.Communication == nil || *got.Communication != 8 {
		t.Fatalf("unexpected candidate after positional patch: %+v", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	store := seeded(t)

	snapshot := store.Snapshot()
	snapshot[0].Name = "Changed"

	if got := store.Find("id:a"); got.Name != "Asha" {
		t.Fatalf("expected store to be unaffected, got %s", got.Name)
	}
}
