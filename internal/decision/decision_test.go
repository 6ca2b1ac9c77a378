package decision

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/talgya/living-world/internal/advisory"
	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/world"
)

type stubAdvisor struct {
	insight *advisory.Insight
	err     error
	delay   time.Duration
}

func (s *stubAdvisor) Advise(ctx context.Context, q advisory.Query) (*advisory.Insight, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.insight, s.err
}

func testEnv(seed int64) Env {
	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	return Env{Field: world.Generate(cfg), Rng: rand.New(rand.NewSource(seed))}
}

func testAgent() *agents.Agent {
	sp := agents.NewSpawner(1)
	return sp.Spawn(0, world.Point{X: 100, Y: 100})
}

func TestInstinctFollowsWorstNeed(t *testing.T) {
	a := testAgent()
	a.Needs = agents.NeedsState{Hunger: 10, Energy: 50, Social: 50, Purpose: 50, Growth: 50, Safety: 50, Love: 50}
	if got := Instinct(a); got != agents.ActionEat {
		t.Errorf("starving instinct = %v, want eat", got)
	}
	a.Needs.Hunger = 50
	a.Needs.Energy = 5
	if got := Instinct(a); got != agents.ActionSleep {
		t.Errorf("exhausted instinct = %v, want sleep", got)
	}
}

func TestInstinctSufferingOverrides(t *testing.T) {
	a := testAgent()
	a.Needs.Hunger = 5
	a.Emotions.Suffering = 90
	if got := Instinct(a); got != agents.ActionHeal {
		t.Errorf("deep suffering should override hunger, got %v", got)
	}
}

func TestInstinctContentAgentExplores(t *testing.T) {
	a := testAgent()
	a.Needs = agents.NeedsState{Hunger: 90, Energy: 90, Social: 90, Purpose: 90, Growth: 90, Safety: 90, Love: 90}
	a.Genetics.Curiosity = 80
	if got := Instinct(a); got != agents.ActionWander {
		t.Errorf("content curious agent should wander, got %v", got)
	}
}

func TestInsightKeywordRouting(t *testing.T) {
	a := testAgent()
	cases := []struct {
		insight string
		want    agents.ActionKind
	}{
		{"You should find food soon", agents.ActionEat},
		{"Rest now; the road is long", agents.ActionSleep},
		{"Seek out a friend", agents.ActionSocialize},
		{"Create something lasting", agents.ActionCreate},
		{"Knowledge awaits in the hills", agents.ActionSeekKnowledge},
	}
	for _, c := range cases {
		got := actionFromInsight(&advisory.Insight{PrimaryInsight: c.insight}, a)
		if got != c.want {
			t.Errorf("actionFromInsight(%q) = %v, want %v", c.insight, got, c.want)
		}
	}
}

func TestUnmatchedInsightFallsToInstinct(t *testing.T) {
	a := testAgent()
	a.Needs.Hunger = 5
	got := actionFromInsight(&advisory.Insight{PrimaryInsight: "The stars are silent tonight"}, a)
	if got != agents.ActionEat {
		t.Errorf("unroutable insight should fall back to instinct, got %v", got)
	}
}

func waitReconcile(t *testing.T, e *Engine, a *agents.Agent) {
	t.Helper()
	lookup := func(id agents.AgentID) *agents.Agent {
		if id == a.ID {
			return a
		}
		return nil
	}
	deadline := time.Now().Add(2 * time.Second)
	for a.DecisionPending {
		if time.Now().After(deadline) {
			t.Fatal("decision never reconciled")
		}
		e.Reconcile(1, lookup)
		time.Sleep(time.Millisecond)
	}
}

func TestFailingAdvisorFallsBackAndActs(t *testing.T) {
	e := NewEngine(&stubAdvisor{err: errors.New("advisor down")}, testEnv(1))
	a := testAgent()
	a.Needs.Hunger = 10
	a.DecisionTimer = Interval

	e.Step(context.Background(), 1, a, 0)
	if !a.DecisionPending {
		t.Fatal("consultation should be in flight")
	}
	waitReconcile(t, e, a)

	if a.CurrentAction != agents.ActionEat {
		t.Errorf("action = %v, want eat", a.CurrentAction)
	}
	if a.Needs.Hunger != 40 {
		t.Errorf("eating should restore hunger by 30: got %v", a.Needs.Hunger)
	}
	if len(a.Thoughts) == 0 {
		t.Error("the fallback should leave a thought")
	}
}

func TestAdvisorInsightDrivesAction(t *testing.T) {
	e := NewEngine(&stubAdvisor{insight: &advisory.Insight{PrimaryInsight: "Rest and recover your strength", Confidence: 90}}, testEnv(1))
	a := testAgent()
	a.Needs.Energy = 30
	a.DecisionTimer = Interval

	e.Step(context.Background(), 1, a, 0)
	waitReconcile(t, e, a)

	if a.CurrentAction != agents.ActionSleep {
		t.Errorf("action = %v, want sleep", a.CurrentAction)
	}
	if a.Thoughts[len(a.Thoughts)-1] != "Rest and recover your strength" {
		t.Error("the insight should be remembered as a thought")
	}
}

func TestNoSecondConsultationWhilePending(t *testing.T) {
	e := NewEngine(&stubAdvisor{delay: time.Minute}, testEnv(1))
	a := testAgent()
	a.DecisionTimer = Interval
	e.Step(context.Background(), 1, a, 0)
	if e.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", e.Pending())
	}
	a.DecisionTimer = Interval
	e.Step(context.Background(), 2, a, 0)
	if e.Pending() != 1 {
		t.Errorf("pending agent should not consult twice, pending = %d", e.Pending())
	}
}

func TestNilAdvisorUsesInstinctImmediately(t *testing.T) {
	e := NewEngine(nil, testEnv(1))
	a := testAgent()
	a.Needs.Hunger = 10
	a.DecisionTimer = Interval
	e.Step(context.Background(), 1, a, 0)
	if a.DecisionPending {
		t.Error("no advisor means no pending consultation")
	}
	if a.CurrentAction != agents.ActionEat {
		t.Errorf("action = %v, want eat", a.CurrentAction)
	}
}

func TestDeadAgentResultDiscarded(t *testing.T) {
	e := NewEngine(&stubAdvisor{insight: &advisory.Insight{PrimaryInsight: "eat"}}, testEnv(1))
	a := testAgent()
	a.DecisionTimer = Interval
	e.Step(context.Background(), 1, a, 0)

	a.Alive = false
	prev := a.CurrentAction
	deadline := time.Now().Add(2 * time.Second)
	for e.Pending() > 0 && time.Now().Before(deadline) {
		e.Reconcile(1, func(id agents.AgentID) *agents.Agent { return a })
		time.Sleep(time.Millisecond)
	}
	if a.CurrentAction != prev {
		t.Error("a dead agent's pending result must be discarded")
	}
}

func TestDecisionCadence(t *testing.T) {
	e := NewEngine(nil, testEnv(1))
	a := testAgent()
	a.CurrentAction = agents.ActionIdle
	e.Step(context.Background(), 1, a, Interval-1)
	if a.DecisionTimer != Interval-1 {
		t.Errorf("timer = %v, want %v", a.DecisionTimer, Interval-1)
	}
	e.Step(context.Background(), 2, a, 1)
	if a.DecisionTimer != 0 {
		t.Error("cadence crossing should reset the timer")
	}
}

func TestEveryActionLeavesExperienceAndXP(t *testing.T) {
	e := NewEngine(nil, testEnv(1))
	all := []agents.ActionKind{
		agents.ActionIdle, agents.ActionWander, agents.ActionEat,
		agents.ActionSleep, agents.ActionSocialize, agents.ActionCreate,
		agents.ActionDestroy, agents.ActionHeal, agents.ActionLearn,
		agents.ActionLove, agents.ActionSeekKnowledge, agents.ActionWork,
		agents.ActionPlay,
	}
	for _, kind := range all {
		a := testAgent()
		memories := len(a.Experiences)
		xp := a.Skills.TotalXP()

		a.CurrentAction = kind
		e.apply(a, 1)

		if len(a.Experiences) <= memories {
			t.Errorf("%s should leave a memory", kind)
		}
		if a.Skills.TotalXP() <= xp {
			t.Errorf("%s should grant skill experience", kind)
		}
	}
}
