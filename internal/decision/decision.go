// Package decision drives each agent's choice of action. Agents consult
// the advisory service on a fixed cadence; while an answer is in flight
// they keep acting on their previous choice, and when the advisor fails
// or stays silent they fall back to instinct. The world never blocks on
// a consultation.
package decision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/talgya/living-world/internal/advisory"
	"github.com/talgya/living-world/internal/agents"
)

// Interval is the simulated seconds between decision points per agent.
const Interval = 5.0

type outcome struct {
	insight *advisory.Insight
	err     error
}

// Engine owns the in-flight consultations. One pending future per agent
// at most; results are reconciled at the start of each tick.
type Engine struct {
	advisor advisory.Advisor
	timeout time.Duration
	env     Env

	pending map[agents.AgentID]chan outcome
}

// NewEngine creates the decision engine. advisor may be nil; agents then
// run purely on instinct.
func NewEngine(advisor advisory.Advisor, env Env) *Engine {
	return &Engine{
		advisor: advisor,
		timeout: advisory.DefaultTimeout,
		env:     env,
		pending: make(map[agents.AgentID]chan outcome),
	}
}

// Pending reports in-flight consultations, for status reporting.
func (e *Engine) Pending() int { return len(e.pending) }

// Reconcile drains every completed consultation and applies the resulting
// action to its agent. Dead or vanished agents have their results
// discarded. Called once at the start of each tick.
func (e *Engine) Reconcile(tick uint64, lookup func(agents.AgentID) *agents.Agent) {
	for id, ch := range e.pending {
		select {
		case out := <-ch:
			delete(e.pending, id)
			a := lookup(id)
			if a == nil || !a.Alive {
				continue
			}
			a.DecisionPending = false
			if out.err != nil {
				slog.Debug("advisory failed, using instinct", "agent", a.Name, "err", out.err)
				a.CurrentAction = Instinct(a)
				a.Think(fmt.Sprintf("My instincts tell me to %s", a.CurrentAction))
			} else {
				a.CurrentAction = actionFromInsight(out.insight, a)
				a.Think(out.insight.PrimaryInsight)
			}
			e.apply(a, tick)
		default:
			// still in flight
		}
	}
}

// Step advances one agent's decision timer by dt and launches a new
// consultation when the cadence comes due. Agents with a pending
// consultation keep their current action.
func (e *Engine) Step(ctx context.Context, tick uint64, a *agents.Agent, dt float64) {
	if !a.Alive {
		return
	}
	a.DecisionTimer += dt
	if a.DecisionTimer < Interval || a.DecisionPending {
		return
	}
	a.DecisionTimer = 0

	if e.advisor == nil {
		a.CurrentAction = Instinct(a)
		e.apply(a, tick)
		return
	}

	a.DecisionPending = true
	ch := make(chan outcome, 1)
	e.pending[a.ID] = ch

	q := buildQuery(a)
	go func() {
		cctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		ins, err := e.advisor.Advise(cctx, q)
		ch <- outcome{insight: ins, err: err}
	}()
}

func buildQuery(a *agents.Agent) advisory.Query {
	urgent, _ := a.Needs.MostDeficient()
	q := advisory.Query{
		AgentName: a.Name,
		Stage:     string(a.Stage),
		Urgency:   string(urgent),
		Needs: map[string]float64{
			"hunger": a.Needs.Hunger, "energy": a.Needs.Energy,
			"social": a.Needs.Social, "purpose": a.Needs.Purpose,
			"growth": a.Needs.Growth, "safety": a.Needs.Safety,
			"love": a.Needs.Love,
		},
		Emotions: map[string]float64{
			"joy": a.Emotions.Joy, "suffering": a.Emotions.Suffering,
			"sadness": a.Emotions.Sadness, "fear": a.Emotions.Fear,
			"love": a.Emotions.Love, "anger": a.Emotions.Anger,
		},
		Beliefs:  a.Beliefs,
		Question: fmt.Sprintf("What should %s do next?", a.Name),
	}
	if g := a.Goals.Priority(); g != nil {
		q.PriorityGoal = g.Title
	}
	return q
}

// Keyword routing from advisor prose to a concrete action. First match
// wins; an insight that matches nothing falls through to instinct.
var insightKeywords = []struct {
	substr string
	action agents.ActionKind
}{
	{"eat", agents.ActionEat},
	{"food", agents.ActionEat},
	{"rest", agents.ActionSleep},
	{"sleep", agents.ActionSleep},
	{"friend", agents.ActionSocialize},
	{"connect", agents.ActionSocialize},
	{"together", agents.ActionSocialize},
	{"love", agents.ActionLove},
	{"create", agents.ActionCreate},
	{"build", agents.ActionCreate},
	{"make", agents.ActionCreate},
	{"learn", agents.ActionLearn},
	{"study", agents.ActionLearn},
	{"knowledge", agents.ActionSeekKnowledge},
	{"discover", agents.ActionSeekKnowledge},
	{"explore", agents.ActionWander},
	{"wander", agents.ActionWander},
	{"heal", agents.ActionHeal},
	{"recover", agents.ActionHeal},
	{"work", agents.ActionWork},
	{"play", agents.ActionPlay},
}

func actionFromInsight(ins *advisory.Insight, a *agents.Agent) agents.ActionKind {
	text := strings.ToLower(ins.PrimaryInsight)
	for _, sup := range ins.SupportingInsights {
		text += " " + strings.ToLower(sup)
	}
	for _, kw := range insightKeywords {
		if strings.Contains(text, kw.substr) {
			return kw.action
		}
	}
	return Instinct(a)
}

// Instinct is the deterministic fallback: the most deficient need picks
// the action, with suffering overriding everything once it dominates.
func Instinct(a *agents.Agent) agents.ActionKind {
	if a.Emotions.Suffering > 70 {
		return agents.ActionHeal
	}
	need, val := a.Needs.MostDeficient()
	if val > 60 {
		// Nothing is urgent; disposition decides.
		if a.Genetics.Curiosity > 50 {
			return agents.ActionWander
		}
		return agents.ActionPlay
	}
	switch need {
	case agents.NeedHunger:
		return agents.ActionEat
	case agents.NeedEnergy:
		return agents.ActionSleep
	case agents.NeedSocial:
		return agents.ActionSocialize
	case agents.NeedPurpose:
		return agents.ActionCreate
	case agents.NeedGrowth:
		return agents.ActionLearn
	case agents.NeedSafety:
		return agents.ActionWander
	case agents.NeedLove:
		return agents.ActionLove
	}
	return agents.ActionIdle
}
