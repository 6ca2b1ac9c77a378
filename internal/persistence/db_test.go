package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/living-world/internal/chronicle"
	"github.com/talgya/living-world/internal/engine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFreshDBHasNoSnapshot(t *testing.T) {
	db := openTestDB(t)
	if db.HasSnapshot() {
		t.Error("fresh database should report no snapshot")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)

	w := engine.NewWorld(42, 4, nil)
	w.Tick = 17
	w.Record("test", "a notable moment")
	w.Agents[0].EvolutionLevel = 33
	w.Agents[0].Beliefs = map[string]float64{"generosity returns": 50}
	w.Agents[1].Skills.Gain("crafting", 90, 10, 5)

	if err := db.Save(w); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !db.HasSnapshot() {
		t.Fatal("saved database should report a snapshot")
	}

	restored := engine.NewWorld(42, 0, nil)
	if err := db.Load(restored); err != nil {
		t.Fatalf("load: %v", err)
	}

	if restored.Tick != 17 {
		t.Errorf("tick = %d, want 17", restored.Tick)
	}
	if len(restored.Agents) != len(w.Agents) {
		t.Fatalf("agents = %d, want %d", len(restored.Agents), len(w.Agents))
	}

	got := restored.Agents[0]
	want := w.Agents[0]
	if got.Name != want.Name || got.EvolutionLevel != want.EvolutionLevel {
		t.Errorf("agent 0 mismatch: %v/%v vs %v/%v", got.Name, got.EvolutionLevel, want.Name, want.EvolutionLevel)
	}
	if got.Beliefs["generosity returns"] != 50 {
		t.Error("beliefs should survive the round trip")
	}
	if restored.Agents[1].Skills.Level("crafting") != w.Agents[1].Skills.Level("crafting") {
		t.Error("skill levels should survive the round trip")
	}
	if got.Chronicle == nil || got.Chronicle.Len() == 0 {
		t.Fatal("chronicle should be restored")
	}
	if got.Goals == nil || len(got.Goals.Goals) == 0 {
		t.Fatal("goals should be restored")
	}

	if len(restored.Events) != 1 || restored.Events[0].Kind != "test" {
		t.Errorf("events = %+v", restored.Events)
	}

	// The restored world must report identically.
	a := w.Report()
	b := restored.Report()
	if a.Tick != b.Tick || a.Alive != b.Alive || a.Total != b.Total || a.GiftsGiven != b.GiftsGiven {
		t.Errorf("reports differ: %+v vs %+v", a, b)
	}
}

func TestLoadedChronicleKeepsRecording(t *testing.T) {
	db := openTestDB(t)
	w := engine.NewWorld(1, 1, nil)
	if err := db.Save(w); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := engine.NewWorld(1, 0, nil)
	if err := db.Load(restored); err != nil {
		t.Fatalf("load: %v", err)
	}
	a := restored.Agents[0]
	before := a.Chronicle.Len()
	e := a.Chronicle.Record(chronicle.Event{Type: chronicle.EventWisdomGained, Title: "after the long sleep"})
	if e.Seq != before {
		t.Errorf("restored chronicle sequence = %d, want %d", e.Seq, before)
	}
}

func TestSaveIsFullReplace(t *testing.T) {
	db := openTestDB(t)
	w := engine.NewWorld(1, 3, nil)
	if err := db.Save(w); err != nil {
		t.Fatalf("first save: %v", err)
	}

	w2 := engine.NewWorld(2, 1, nil)
	if err := db.Save(w2); err != nil {
		t.Fatalf("second save: %v", err)
	}

	restored := engine.NewWorld(2, 0, nil)
	if err := db.Load(restored); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(restored.Agents) != 1 {
		t.Errorf("agents = %d, want 1 (older snapshot must be replaced)", len(restored.Agents))
	}
}

func TestLoadResumesSpawnerIDs(t *testing.T) {
	db := openTestDB(t)
	w := engine.NewWorld(1, 3, nil)
	if err := db.Save(w); err != nil {
		t.Fatalf("save: %v", err)
	}
	restored := engine.NewWorld(1, 0, nil)
	if err := db.Load(restored); err != nil {
		t.Fatalf("load: %v", err)
	}
	next := restored.Spawner.Spawn(0, restored.Agents[0].Position)
	for _, a := range restored.Agents {
		if a.ID == next.ID {
			t.Fatal("spawner reused a persisted ID")
		}
	}
}
