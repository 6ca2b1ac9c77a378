package social

import (
	"math/rand"
	"testing"

	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/world"
)

func twoAgents(t *testing.T) (*agents.Agent, *agents.Agent) {
	t.Helper()
	sp := agents.NewSpawner(1)
	a := sp.Spawn(0, world.Point{X: 0, Y: 0})
	b := sp.Spawn(0, world.Point{X: 10, Y: 0})
	return a, b
}

func TestGiveSatisfiesTheMatchingNeed(t *testing.T) {
	a, b := twoAgents(t)
	b.Needs.Hunger = 20
	ec := NewEconomy()
	ec.Give(5, a, b, GiftFood, "fresh bread", 25, MotiveAbundance)
	if b.Needs.Hunger != 45 {
		t.Errorf("receiver hunger = %v, want 45", b.Needs.Hunger)
	}
}

func TestMotivationScalesBondStrength(t *testing.T) {
	a, b := twoAgents(t)
	love := BondStrength(a, b, 10, MotiveLove)
	duty := BondStrength(a, b, 10, MotiveDuty)
	if love <= duty {
		t.Errorf("love (%v) should bond deeper than duty (%v)", love, duty)
	}
	ratio := love / duty
	if ratio < 3.1 || ratio > 3.2 {
		t.Errorf("love/duty ratio = %v, want 2.5/0.8", ratio)
	}
}

func TestTrustAndSimilarityShapeScores(t *testing.T) {
	ec := NewEconomy()

	near1, near2 := twoAgents(t)
	near1.Relationship(near2.ID).Trust = 100
	near1.Emotions = agents.EmotionState{Joy: 50, Love: 50, Gratitude: 50}
	near2.Emotions = agents.EmotionState{Joy: 50, Love: 50, Gratitude: 50}
	near2.Needs.Hunger = 20

	far1, far2 := twoAgents(t)
	far1.Emotions = agents.EmotionState{Joy: 80, Love: 80, Gratitude: 80}
	far2.Emotions = agents.EmotionState{Joy: -80, Suffering: 80}
	far2.Needs.Hunger = 20

	near := ec.Give(1, near1, near2, GiftFood, "bread", 10, MotiveAbundance)
	far := ec.Give(2, far1, far2, GiftFood, "bread", 10, MotiveAbundance)

	if near.BondStrength <= far.BondStrength {
		t.Errorf("trusted giving should bond deeper: %v vs %v", near.BondStrength, far.BondStrength)
	}
	if near.Resonance <= far.Resonance {
		t.Errorf("kindred hearts should resonate deeper: %v vs %v", near.Resonance, far.Resonance)
	}
}

func TestScarcityAmplifiesResonance(t *testing.T) {
	ec := NewEconomy()
	a, b := twoAgents(t)
	b.Needs.Hunger = 10
	starving := ec.Give(1, a, b, GiftFood, "bread", 10, MotiveAbundance)

	_, c := twoAgents(t)
	c.Needs = agents.NeedsState{Hunger: 90, Energy: 90, Social: 90, Purpose: 90, Growth: 90, Safety: 90, Love: 90}
	comfortable := ec.Give(2, a, c, GiftFood, "bread", 10, MotiveAbundance)

	if starving.Resonance <= comfortable.Resonance {
		t.Errorf("a gift to the starving (%v) should resonate more than one to the comfortable (%v)",
			starving.Resonance, comfortable.Resonance)
	}
}

func TestReputationDerivedFromLedger(t *testing.T) {
	ec := NewEconomy()
	a, b := twoAgents(t)

	before := ec.ReputationOf(a.ID)
	if before.Generosity != 50 || before.Gratitude != 50 || before.Reliability != 50 {
		t.Fatalf("unknown agents start neutral, got %+v", before)
	}

	ec.Give(1, a, b, GiftTime, "an afternoon", 20, MotiveJoy)
	first := ec.ReputationOf(a.ID)
	if first.Generosity <= 50 {
		t.Fatalf("giving should build generosity, got %v", first.Generosity)
	}
	if first.GiftsGiven != 1 {
		t.Errorf("gifts given = %d, want 1", first.GiftsGiven)
	}
	if first.Bonds[b.ID] <= 0 {
		t.Error("giving should build a per-peer bond")
	}

	ec.Give(2, a, b, GiftTime, "an afternoon", 20, MotiveJoy)
	second := ec.ReputationOf(a.ID)
	if second.Generosity <= first.Generosity {
		t.Error("repeated giving should keep building generosity")
	}
	if second.GiftsGiven != 2 {
		t.Errorf("gifts given = %d, want 2", second.GiftsGiven)
	}

	recv := ec.ReputationOf(b.ID)
	if recv.Gratitude <= 50 {
		t.Error("receiving should build gratitude")
	}
	if recv.GiftsReceived != 2 {
		t.Errorf("gifts received = %d, want 2", recv.GiftsReceived)
	}
}

func TestFulfillmentBuildsReliability(t *testing.T) {
	ec := NewEconomy()
	a, b := twoAgents(t)
	a.Needs.Hunger = 5
	req := ec.Post(1, a)
	if req == nil {
		t.Fatal("setup: request not posted")
	}
	ec.Fulfill(2, req, b, a, rand.New(rand.NewSource(1)))
	rep := ec.ReputationOf(b.ID)
	if rep.Reliability <= 50 {
		t.Errorf("answering a request should build reliability, got %v", rep.Reliability)
	}
}

func TestReciprocateOnce(t *testing.T) {
	ec := NewEconomy()
	a, b := twoAgents(t)
	g := ec.Give(1, a, b, GiftFood, "bread", 20, MotiveAbundance)

	ret := ec.Reciprocate(2, g, b, a)
	if ret == nil {
		t.Fatal("first reciprocation should succeed")
	}
	if !g.Reciprocated {
		t.Error("original gift should be marked reciprocated")
	}
	if again := ec.Reciprocate(3, g, b, a); again != nil {
		t.Error("a gift can be reciprocated at most once")
	}
}

func TestReciprocateRejectsWrongDirection(t *testing.T) {
	ec := NewEconomy()
	a, b := twoAgents(t)
	g := ec.Give(1, a, b, GiftFood, "bread", 20, MotiveAbundance)
	if ret := ec.Reciprocate(2, g, a, b); ret != nil {
		t.Error("only the receiver can reciprocate")
	}
}

func TestOwedFindsOldestOpenGift(t *testing.T) {
	ec := NewEconomy()
	a, b := twoAgents(t)
	first := ec.Give(1, a, b, GiftFood, "bread", 20, MotiveAbundance)
	ec.Give(2, a, b, GiftCare, "company", 10, MotiveJoy)
	if got := ec.Owed(b.ID); got != first {
		t.Error("Owed should return the oldest unreciprocated gift")
	}
	ec.Reciprocate(3, first, b, a)
	got := ec.Owed(b.ID)
	if got == nil || got.ID == first.ID {
		t.Error("after reciprocation the next open gift is owed")
	}
}

func TestRequestPostedOnlyWhenScarce(t *testing.T) {
	ec := NewEconomy()
	a, _ := twoAgents(t)
	a.Needs = agents.NeedsState{Hunger: 80, Energy: 80, Social: 80, Purpose: 80, Growth: 80, Safety: 80, Love: 80}
	if req := ec.Post(1, a); req != nil {
		t.Error("a comfortable agent should not post a request")
	}
	a.Needs.Love = 5
	req := ec.Post(2, a)
	if req == nil {
		t.Fatal("a deprived agent should post a request")
	}
	if req.Kind != GiftCare {
		t.Errorf("love-starved agent should ask for care, got %v", req.Kind)
	}
	if dup := ec.Post(3, a); dup != nil {
		t.Error("an agent keeps at most one open request")
	}
}

func TestFulfillClosesRequest(t *testing.T) {
	ec := NewEconomy()
	a, b := twoAgents(t)
	a.Needs.Hunger = 5
	req := ec.Post(1, a)
	if req == nil {
		t.Fatal("setup: request not posted")
	}
	g := ec.Fulfill(2, req, b, a, rand.New(rand.NewSource(1)))
	if g == nil {
		t.Fatal("fulfillment should produce a gift")
	}
	if !req.Fulfilled {
		t.Error("request should be closed")
	}
	if len(ec.Open()) != 0 {
		t.Error("no requests should remain open")
	}
	if again := ec.Fulfill(3, req, b, a, rand.New(rand.NewSource(1))); again != nil {
		t.Error("a fulfilled request cannot be fulfilled again")
	}
}
