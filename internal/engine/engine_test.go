package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/chronicle"
	"github.com/talgya/living-world/internal/social"
)

func testWorld(t *testing.T, n int) (*World, *Engine) {
	t.Helper()
	w := NewWorld(42, n, nil)
	eng := New(w, DefaultConfig())
	return w, eng
}

func TestNewWorldSpawnsFounders(t *testing.T) {
	w, _ := testWorld(t, 5)
	if len(w.Alive()) != 5 {
		t.Fatalf("alive = %d, want 5", len(w.Alive()))
	}
	for _, a := range w.Agents {
		if w.Agent(a.ID) != a {
			t.Error("index lookup should return the same agent")
		}
		if a.Chronicle == nil || a.Goals == nil || a.Skills == nil {
			t.Error("every agent carries its trackers")
		}
	}
}

func TestStepAdvancesTickAndAge(t *testing.T) {
	w, eng := testWorld(t, 3)
	age := w.Agents[0].Age
	eng.Step(context.Background())
	if w.Tick != 1 {
		t.Errorf("tick = %d, want 1", w.Tick)
	}
	if w.Agents[0].Age <= age {
		t.Error("agents should age each tick")
	}
}

func TestDeathSpawnsExactlyOneSuccessor(t *testing.T) {
	w, eng := testWorld(t, 2)
	victim := w.Agents[0]
	victim.Age = victim.MaxAge + 1

	total := len(w.Agents)
	eng.Step(context.Background())

	if victim.Alive {
		t.Fatal("overage agent should die")
	}
	if len(w.Agents) != total+1 {
		t.Fatalf("population = %d, want %d (one successor)", len(w.Agents), total+1)
	}
	if len(w.Legacies) != 1 {
		t.Errorf("legacies = %d, want 1", len(w.Legacies))
	}

	// Already-dead agents stay dead on later ticks.
	eng.Step(context.Background())
	if len(w.Legacies) != 1 {
		t.Error("a death must be processed exactly once")
	}

	succ := w.Agents[len(w.Agents)-1]
	if succ.Name != victim.Name+" Reborn" {
		t.Errorf("successor name = %q", succ.Name)
	}
}

func TestDeadAgentsExcludedFromSimulation(t *testing.T) {
	w, eng := testWorld(t, 2)
	victim := w.Agents[0]
	victim.Age = victim.MaxAge + 1
	eng.Step(context.Background())

	needs := victim.Needs
	age := victim.Age
	eng.Step(context.Background())
	if victim.Needs != needs || victim.Age != age {
		t.Error("a dead agent's state must be frozen")
	}
}

func TestLostBirthDropsChild(t *testing.T) {
	w, eng := testWorld(t, 2)
	a, b := w.Agents[0], w.Agents[1]
	a.Stage = agents.StageAdult
	b.Stage = agents.StageAdult
	p := &social.Partnership{
		ID:      "test",
		Members: []agents.AgentID{a.ID, b.ID},
		Gestation: &social.Gestation{
			MotherID: a.ID, FatherID: b.ID,
			Remaining: 0.1,
		},
	}
	w.Partnerships.Partnerships = append(w.Partnerships.Partnerships, p)
	a.Alive = false
	b.Alive = false
	a.Stage = agents.StageDead
	b.Stage = agents.StageDead

	total := len(w.Agents)
	eng.Step(context.Background())

	if len(w.Agents) != total {
		t.Error("a birth with no living parent must not create a child")
	}
	found := false
	for _, ev := range w.Events {
		if ev.Kind == "lost_birth" {
			found = true
		}
	}
	if !found {
		t.Error("a lost birth should be recorded as a world event")
	}
}

func TestBirthCreatesChildAndChronicles(t *testing.T) {
	w, eng := testWorld(t, 2)
	a, b := w.Agents[0], w.Agents[1]
	a.Stage = agents.StageAdult
	b.Stage = agents.StageAdult
	p := &social.Partnership{
		ID:      "test",
		Members: []agents.AgentID{a.ID, b.ID},
		Gestation: &social.Gestation{
			MotherID: a.ID, FatherID: b.ID,
			Remaining: 0.1,
		},
	}
	w.Partnerships.Partnerships = append(w.Partnerships.Partnerships, p)

	total := len(w.Agents)
	eng.Step(context.Background())

	if len(w.Agents) != total+1 {
		t.Fatalf("population = %d, want %d", len(w.Agents), total+1)
	}
	if !a.Chronicle.Has(chronicle.EventChildBorn) || !b.Chronicle.Has(chronicle.EventChildBorn) {
		t.Error("both parents should chronicle the birth")
	}
	child := w.Agents[len(w.Agents)-1]
	if child.Stage != agents.StageNewborn {
		t.Errorf("child stage = %v, want newborn", child.Stage)
	}
	if len(p.Children) != 1 || p.Children[0] != child.ID {
		t.Errorf("partnership should track its children, got %v", p.Children)
	}
}

func TestReciprocationScalesWithGratitude(t *testing.T) {
	w, eng := testWorld(t, 2)
	a, b := w.Agents[0], w.Agents[1]
	a.Needs = agents.NeedsState{Hunger: 80, Energy: 80, Social: 80, Purpose: 80, Growth: 80, Safety: 80, Love: 80}
	b.Needs = a.Needs

	g := w.Economy.Give(1, a, b, social.GiftFood, "bread", 20, social.MotiveAbundance)
	b.Emotions.Gratitude = 100
	eng.giving()
	if !g.Reciprocated {
		t.Error("full gratitude should always repay the debt")
	}

	g2 := w.Economy.Give(2, a, b, social.GiftFood, "bread", 20, social.MotiveAbundance)
	a.Emotions.Gratitude = 0
	b.Emotions.Gratitude = 0
	eng.giving()
	if g2.Reciprocated {
		t.Error("no gratitude, no repayment")
	}
}

func TestOnDeathOverrideReceivesLegacy(t *testing.T) {
	w, eng := testWorld(t, 2)
	victim := w.Agents[0]
	victim.Age = victim.MaxAge + 1

	var got agents.Legacy
	eng.OnDeath = func(of *agents.Agent, legacy agents.Legacy) {
		got = legacy
	}

	total := len(w.Agents)
	eng.Step(context.Background())

	if victim.Alive {
		t.Fatal("overage agent should die")
	}
	if len(w.Agents) != total {
		t.Error("an overridden death handler spawns no successor")
	}
	if got.Name != victim.Name {
		t.Errorf("legacy name = %q, want %q", got.Name, victim.Name)
	}
	if got.Age <= 0 {
		t.Error("legacy should carry the age reached")
	}
	if got.Story.Epilogue == "" {
		t.Error("a finished life gets an epilogue")
	}
}

func TestConcurrentViewDuringSteps(t *testing.T) {
	_, eng := testWorld(t, 4)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			eng.Step(context.Background())
		}
	}()
	for i := 0; i < 200; i++ {
		eng.View(func(w *World) {
			if _, err := json.Marshal(w.Agents); err != nil {
				t.Errorf("marshal world view: %v", err)
			}
		})
	}
	<-done
}

func TestReportCounts(t *testing.T) {
	w, eng := testWorld(t, 4)
	eng.Step(context.Background())
	r := w.Report()
	if r.Tick != 1 || r.Alive != 4 || r.Total != 4 {
		t.Errorf("report = %+v", r)
	}
}

func TestReportAgentUnknownID(t *testing.T) {
	w, _ := testWorld(t, 1)
	if _, ok := w.ReportAgent(999); ok {
		t.Error("unknown agent should not report")
	}
	if _, ok := w.Story(999); ok {
		t.Error("unknown agent should have no story")
	}
}

func TestStoryForLivingAgent(t *testing.T) {
	w, _ := testWorld(t, 1)
	story, ok := w.Story(w.Agents[0].ID)
	if !ok {
		t.Fatal("agent should have a story")
	}
	if story.Epilogue != "" {
		t.Error("living agent story has no epilogue")
	}
	if len(story.Chapters) == 0 {
		t.Error("the birth alone makes a first chapter")
	}
}

func TestWorldDeterministicForSeed(t *testing.T) {
	w1 := NewWorld(7, 5, nil)
	w2 := NewWorld(7, 5, nil)
	for i := range w1.Agents {
		if w1.Agents[i].Name != w2.Agents[i].Name {
			t.Fatal("same seed should spawn identical founders")
		}
		if w1.Agents[i].Position != w2.Agents[i].Position {
			t.Fatal("same seed should place founders identically")
		}
	}
}

func TestRebuildResumesIDs(t *testing.T) {
	w, _ := testWorld(t, 3)
	w.Rebuild()
	next := w.Spawner.Spawn(0, w.Agents[0].Position)
	for _, a := range w.Agents {
		if a.ID == next.ID {
			t.Fatal("rebuilt spawner must not reuse IDs")
		}
	}
}
