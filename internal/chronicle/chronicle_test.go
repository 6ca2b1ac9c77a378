package chronicle

import (
	"testing"
)

func TestNewRecordsBirth(t *testing.T) {
	c := New(1, "Aelara", 1000, 0)
	if c.Len() != 1 {
		t.Fatalf("expected 1 event, got %d", c.Len())
	}
	e := c.Events[0]
	if e.Type != EventBirth {
		t.Errorf("first event type = %v, want %v", e.Type, EventBirth)
	}
	if e.Impact != 100 || e.Importance != LifeChanging {
		t.Errorf("birth should be life changing with impact 100, got %v %v", e.Importance, e.Impact)
	}
}

func TestRecordAssignsOrder(t *testing.T) {
	c := New(1, "Aelara", 1000, 0)
	a := c.Record(Event{Type: EventWisdomGained, Title: "first"})
	b := c.Record(Event{Type: EventWisdomGained, Title: "second"})
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Error("events should get distinct non-empty IDs")
	}
	if b.Seq != a.Seq+1 {
		t.Errorf("sequence should be contiguous: %d then %d", a.Seq, b.Seq)
	}
}

func TestAutoRecordFiresOnce(t *testing.T) {
	c := New(1, "Aelara", 1000, 0)
	m := MilestoneState{
		Tick: 10, Age: 100,
		RelationshipCount: 1, FirstPeerID: 2, FirstPeerFamiliarity: 60,
	}
	c.AutoRecord(m)
	if !c.Has(EventFriendshipFormed) {
		t.Fatal("first friendship should be recorded")
	}
	n := c.Len()
	c.AutoRecord(m)
	c.AutoRecord(m)
	if c.Len() != n {
		t.Error("friendship milestone should fire at most once")
	}
}

func TestAutoRecordLoveRequiresExactlyOne(t *testing.T) {
	c := New(1, "Aelara", 1000, 0)
	c.AutoRecord(MilestoneState{LovePeerCount: 2, LovePeerID: 3})
	if c.Has(EventLoveFound) {
		t.Error("love event should not fire for more than one beloved")
	}
	c.AutoRecord(MilestoneState{LovePeerCount: 1, LovePeerID: 3})
	if !c.Has(EventLoveFound) {
		t.Error("love event should fire for exactly one beloved")
	}
}

func TestAutoRecordTranscendenceLadder(t *testing.T) {
	c := New(1, "Aelara", 1000, 0)
	c.AutoRecord(MilestoneState{EvolutionLevel: 55})
	if !c.Has(EventWisdomGained) || c.Has(EventTranscendence) {
		t.Error("evolution 55 should grant wisdom only")
	}
	c.AutoRecord(MilestoneState{EvolutionLevel: 85})
	if !c.Has(EventTranscendence) {
		t.Error("evolution 85 should grant transcendence")
	}
}

func TestChaptersBucketByAge(t *testing.T) {
	c := New(1, "Aelara", 1000, 0)
	c.Record(Event{Age: 50, Type: EventFriendshipFormed, Importance: Significant, Title: "early"})
	c.Record(Event{Age: 500, Type: EventCreationCompleted, Importance: Major, Title: "middle"})
	c.Record(Event{Age: 900, Type: EventWisdomGained, Importance: Major, Title: "late"})

	chapters := c.Chapters()
	if len(chapters) < 3 {
		t.Fatalf("expected at least 3 chapters, got %d", len(chapters))
	}
	if chapters[0].Title != "Awakening" {
		t.Errorf("first chapter = %q, want Awakening", chapters[0].Title)
	}
	last := chapters[len(chapters)-1]
	if last.Title != "Wisdom" {
		t.Errorf("last chapter = %q, want Wisdom", last.Title)
	}
}

func TestChaptersOmitEmpty(t *testing.T) {
	c := New(1, "Aelara", 1000, 0)
	// Only the birth exists, at age 0; every later phase is empty.
	chapters := c.Chapters()
	if len(chapters) != 1 {
		t.Fatalf("expected only the Awakening chapter, got %d", len(chapters))
	}
	if chapters[0].Title != "Awakening" {
		t.Errorf("chapter = %q, want Awakening", chapters[0].Title)
	}
}

func TestStoryEpilogueOnlyWhenDead(t *testing.T) {
	c := New(1, "Aelara", 1000, 0)
	alive := c.Story(500, Legacy{}, false)
	if alive.Epilogue != "" {
		t.Error("a living agent's story should have no epilogue")
	}
	dead := c.Story(1000, Legacy{}, true)
	if dead.Epilogue == "" {
		t.Error("a dead agent's story should close with an epilogue")
	}
}

func TestToneFromImpact(t *testing.T) {
	cases := []struct {
		mean float64
		want Tone
	}{
		{80, ToneJoyful},
		{-50, TonePainful},
		{5, TonePeaceful},
		{35, ToneTransformative},
	}
	for _, tc := range cases {
		if got := toneFor(tc.mean); got != tc.want {
			t.Errorf("toneFor(%v) = %v, want %v", tc.mean, got, tc.want)
		}
	}
}

func TestRehydrateResumesSequence(t *testing.T) {
	c := New(1, "Aelara", 1000, 0)
	c.Record(Event{Type: EventWisdomGained})
	copied := &Chronicle{AgentID: c.AgentID, AgentName: c.AgentName, MaxAge: c.MaxAge, Events: c.Events}
	copied.Rehydrate()
	e := copied.Record(Event{Type: EventTranscendence})
	if e.Seq != 2 {
		t.Errorf("sequence after rehydrate = %d, want 2", e.Seq)
	}
}
