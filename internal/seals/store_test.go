package seals_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"seals-go/internal/seals"
	"seals-go/internal/testutil"
)

func TestNewStore_FreshStart(t *testing.T) {
	store, kv, _ := testutil.NewTestStore(t)

	doc := store.Snapshot()
	if len(doc.Seals) != 3 || doc.ActiveID != "seal_disciple" {
		t.Fatalf("got %d seals active %q, want defaults", len(doc.Seals), doc.ActiveID)
	}
	if kv.Puts() != 1 {
		t.Errorf("puts = %d, want the defaults saved once", kv.Puts())
	}
}

func TestNewStore_FallsBackOnBadState(t *testing.T) {
	tests := map[string]string{
		"malformed": "{not json",
		"no seals":  `{"seals":[],"activeId":""}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			kv := testutil.NewMemoryKV()
			kv.Put(seals.DefaultStorageKey, []byte(raw))
			gw := seals.NewGateway(kv, "", seals.NewNopLogger())
			store := seals.NewStore(gw, testutil.FixedClock(), testutil.NewStubIDGenerator(), seals.NewNopLogger(), seals.StoreOptions{})

			if got := len(store.Snapshot().Seals); got != 3 {
				t.Errorf("got %d seals, want 3 defaults", got)
			}
		})
	}
}

func TestNewStore_ResolvesActiveAndLatchesEarned(t *testing.T) {
	kv := testutil.NewMemoryKV()
	raw := `{
		"seals": [{
			"id": "s1", "title": "Done", "theme": "T",
			"triumphs": [{"id": "t1", "text": "x", "tier": "Gold", "done": true}]
		}]
	}`
	kv.Put(seals.DefaultStorageKey, []byte(raw))
	gw := seals.NewGateway(kv, "", seals.NewNopLogger())
	store := seals.NewStore(gw, testutil.FixedClock(), testutil.NewStubIDGenerator(), seals.NewNopLogger(), seals.StoreOptions{})

	doc := store.Snapshot()
	if doc.ActiveID != "s1" {
		t.Errorf("ActiveID = %q, want first seal", doc.ActiveID)
	}
	s := doc.Seals[0]
	if s.EarnedOn == nil || *s.EarnedOn != "2024-01-15" {
		t.Errorf("EarnedOn = %v, want 2024-01-15", s.EarnedOn)
	}
	if s.Books == nil || s.GildsByYear == nil || s.GildHistory == nil {
		t.Error("absent collections should load as empty")
	}

	persisted, ok := gw.Load()
	if !ok || persisted.Seals[0].EarnedOn == nil {
		t.Error("latched earned date should be persisted")
	}
}

func TestStore_SnapshotsAreStable(t *testing.T) {
	store, _, _ := testutil.NewTestStore(t)
	before := store.Snapshot()
	tr := before.Seals[0].Triumphs[0]

	store.ToggleTriumph(before.Seals[0].ID, tr.ID)
	store.AddBook(before.Seals[0].ID, seals.BookPayload{Title: "Confessions"})
	store.Gild(before.Seals[0].ID, "")

	if before.Seals[0].Triumphs[0].Done || len(before.Seals[0].Books) != 0 {
		t.Error("earlier snapshot observed later changes")
	}
}

func TestStore_PersistsEveryChange(t *testing.T) {
	store, kv, _ := testutil.NewTestStore(t)
	start := kv.Puts()

	if store.SetActive("seal_disciple") {
		t.Error("SetActive on the active seal should report no change")
	}
	if kv.Puts() != start {
		t.Error("unchanged operation should not write")
	}

	if !store.CreateSeal("The Historian", "Church History", "", "iron") {
		t.Fatal("CreateSeal() = false")
	}
	if kv.Puts() != start+1 {
		t.Errorf("puts = %d, want %d", kv.Puts(), start+1)
	}

	data, _ := kv.Get(seals.DefaultStorageKey)
	var persisted seals.Document
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("persisted value is not JSON: %v", err)
	}
	if !reflect.DeepEqual(persisted, store.Snapshot()) {
		t.Error("persisted document differs from the store")
	}
}

func TestStore_GildUsesClockYear(t *testing.T) {
	store, _, clock := testutil.NewTestStore(t)
	s := store.Snapshot().Seals[2]
	for _, tr := range s.Triumphs {
		store.ToggleTriumph(s.ID, tr.ID)
	}

	store.Gild(s.ID, "")
	clock.Advance(365 * 24 * time.Hour)
	store.Gild(s.ID, "")
	store.Gild(s.ID, "")

	got, _ := store.Snapshot().Find(s.ID)
	if got.GildCount("2024") != 1 || got.GildCount("2025") != 2 {
		t.Errorf("GildsByYear = %v, want 2024:1 2025:2", got.GildsByYear)
	}
	if got.GildHistory[0].Date != "2025-01-14" {
		t.Errorf("newest gild date = %s, want 2025-01-14", got.GildHistory[0].Date)
	}
}

func TestStore_GildRequiresComplete(t *testing.T) {
	store, _, _ := testutil.NewTestStore(t)
	if store.Gild("seal_disciple", "") {
		t.Error("Gild() on incomplete seal should report no change")
	}
}

func TestStore_SaveFailureKeepsMemoryState(t *testing.T) {
	kv := &testutil.FaultyKV{}
	gw := seals.NewGateway(kv, "", seals.NewNopLogger())
	store := seals.NewStore(gw, testutil.FixedClock(), testutil.NewStubIDGenerator(), seals.NewNopLogger(), seals.StoreOptions{})

	if !store.AddTriumph("seal_disciple", "Memorize a psalm", seals.Silver) {
		t.Fatal("AddTriumph() = false")
	}
	s, _ := store.Snapshot().Find("seal_disciple")
	if len(s.Triumphs) != 7 {
		t.Errorf("got %d triumphs, want 7 despite failed save", len(s.Triumphs))
	}
}

func TestStore_ResetAll(t *testing.T) {
	store, kv, _ := testutil.NewTestStore(t)
	store.DeleteSeal("seal_disciple")
	store.DeleteSeal("seal_shepherd")

	doc := store.ResetAll()
	if len(doc.Seals) != 3 || doc.ActiveID != "seal_disciple" {
		t.Errorf("got %d seals active %q, want defaults", len(doc.Seals), doc.ActiveID)
	}
	data, _ := kv.Get(seals.DefaultStorageKey)
	if len(data) == 0 {
		t.Error("defaults should be persisted after reset")
	}
}

func TestStore_Replace(t *testing.T) {
	store, _, _ := testutil.NewTestStore(t)

	if err := store.Replace(seals.Document{}); err == nil {
		t.Error("Replace() with no seals should return error")
	}

	doc := seals.Document{
		ActiveID: "missing",
		Seals:    []seals.Seal{{ID: "s1", Title: "Imported", Theme: "T"}},
	}
	if err := store.Replace(doc); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got := store.Snapshot()
	if got.ActiveID != "s1" || got.Seals[0].Triumphs == nil {
		t.Errorf("Replace() = %+v, want normalized document with s1 active", got)
	}
}
