package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/buildings"
	"github.com/talgya/living-world/internal/chronicle"
	"github.com/talgya/living-world/internal/goals"
	"github.com/talgya/living-world/internal/social"
)

// Config tunes the simulation loop.
type Config struct {
	TickInterval time.Duration // real time between ticks
	TimeScale    float64       // simulated seconds per real second
}

// DefaultConfig runs one tick per second at 1x time.
func DefaultConfig() Config {
	return Config{TickInterval: time.Second, TimeScale: 1}
}

// Engine advances a World tick by tick.
type Engine struct {
	mu  sync.Mutex
	w   *World
	cfg Config
	dt  float64 // simulated seconds per tick

	// OnDeath runs after a life ends and its legacy is recorded. The
	// default rekindles the ended life as a successor; callers may
	// replace it to route deaths elsewhere.
	OnDeath func(of *agents.Agent, legacy agents.Legacy)
}

// New wraps a world in an engine.
func New(w *World, cfg Config) *Engine {
	e := &Engine{w: w, cfg: cfg, dt: cfg.TickInterval.Seconds() * cfg.TimeScale}
	e.OnDeath = func(of *agents.Agent, _ agents.Legacy) {
		successor := w.Spawner.SpawnSuccessor(w.Tick, of.Position, of)
		w.Add(successor)
		w.Record("rebirth", fmt.Sprintf("%s carries forward what %s began", successor.Name, of.Name))
	}
	return e
}

// World exposes the underlying state. Callers that run concurrently
// with the tick loop must go through View instead.
func (e *Engine) World() *World { return e.w }

// View runs fn against the world with the tick loop held off, so
// readers on other goroutines never observe a tick mid-mutation.
func (e *Engine) View(fn func(*World)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.w)
}

// Run ticks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	slog.Info("world running", "tick_interval", e.cfg.TickInterval, "time_scale", e.cfg.TimeScale)
	for {
		select {
		case <-ctx.Done():
			slog.Info("world stopped", "tick", e.w.Tick)
			return ctx.Err()
		case <-ticker.C:
			e.Step(ctx)
		}
	}
}

// Step advances the world one tick. The order is fixed: settle in-flight
// decisions first, then let time pass, then everything social, then the
// consequences.
func (e *Engine) Step(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w := e.w
	w.Tick++
	dt := e.dt

	w.Decisions.Reconcile(w.Tick, w.Agent)

	for _, a := range w.Alive() {
		a.Decay(dt)
		a.Grow(dt)
		social.DecayBonds(a, dt)
		w.Decisions.Step(ctx, w.Tick, a, dt)
	}

	e.encounters()
	e.giving()
	e.construction(dt)
	e.partnerships(dt)

	for _, a := range w.Alive() {
		e.applyRewards(a, a.Goals.Update(goalState(w.Tick, a)))
		a.Chronicle.AutoRecord(a.MilestoneState(w.Tick))
	}

	e.deaths()
	w.Buildings.Weather(w.Tick, dt)
	w.logPopulation()
}

// encounters pairs up nearby sociable agents.
func (e *Engine) encounters() {
	alive := e.w.Alive()
	for i, a := range alive {
		if a.CurrentAction != agents.ActionSocialize && a.CurrentAction != agents.ActionLove && a.CurrentAction != agents.ActionPlay {
			continue
		}
		for _, b := range alive[i+1:] {
			if a.Position.Dist(b.Position) > social.InteractRadius {
				continue
			}
			social.Interact(a, b, e.w.rng, e.w.Tick)
			break
		}
	}
}

// giving runs the gift economy: scarce agents post requests, flush
// neighbors answer them, and debts of gratitude get repaid.
func (e *Engine) giving() {
	w := e.w
	alive := w.Alive()

	for _, a := range alive {
		w.Economy.Post(w.Tick, a)
	}

	for _, req := range w.Economy.Open() {
		asker := w.Agent(req.AgentID)
		if asker == nil || !asker.Alive {
			req.Fulfilled = true
			continue
		}
		for _, helper := range alive {
			if helper.ID == asker.ID || helper.Needs.Mean() < 50 {
				continue
			}
			if helper.Position.Dist(asker.Position) > social.InteractRadius*2 {
				continue
			}
			w.Economy.Fulfill(w.Tick, req, helper, asker, w.rng)
			break
		}
	}

	// Gratitude seeks an outlet in proportion to how high it runs.
	for _, a := range alive {
		if w.rng.Float64()*100 >= a.Emotions.Gratitude {
			continue
		}
		owed := w.Economy.Owed(a.ID)
		if owed == nil {
			continue
		}
		if giver := w.Agent(owed.GiverID); giver != nil && giver.Alive {
			w.Economy.Reciprocate(w.Tick, owed, a, giver)
			a.Feel("gratitude", -30)
		}
	}
}

// construction routes working agents to buildings: join the nearest site
// in progress, or break ground when there is nothing to join. Completed
// buildings shelter whoever rests nearby.
func (e *Engine) construction(dt float64) {
	w := e.w
	for _, a := range w.Alive() {
		if a.CurrentAction == agents.ActionWork || a.CurrentAction == agents.ActionCreate {
			if b := nearestSite(w.Buildings.InProgress(), a); b != nil {
				w.Buildings.Contribute(w.Tick, b, a, 5)
			} else if a.CurrentAction == agents.ActionWork && w.rng.Float64() < 0.1 {
				kinds := []buildings.Kind{
					buildings.KindShelter, buildings.KindWorkshop, buildings.KindGarden,
					buildings.KindShrine, buildings.KindHall, buildings.KindLibrary,
					buildings.KindObservatory, buildings.KindMonument,
				}
				w.Buildings.Begin(w.Tick, a, kinds[w.rng.Intn(len(kinds))], a.Position)
			}
		}

		if a.CurrentAction == agents.ActionSleep || a.CurrentAction == agents.ActionHeal || a.CurrentAction == agents.ActionIdle {
			if b := nearestSite(w.Buildings.Standing(), a); b != nil {
				if w.Buildings.Occupy(b, a.ID) {
					buildings.Shelter(b, a, dt)
				}
			}
		} else {
			for _, b := range w.Buildings.Standing() {
				w.Buildings.Vacate(b, a.ID)
			}
		}
	}
}

func nearestSite(bs []*buildings.Building, a *agents.Agent) *buildings.Building {
	var best *buildings.Building
	bestD := social.InteractRadius * 2
	for _, b := range bs {
		if d := a.Position.Dist(b.Pos); d < bestD {
			best, bestD = b, d
		}
	}
	return best
}

// partnerships forms new bonds among loving adults, builds desire in
// existing ones and delivers children that come to term.
func (e *Engine) partnerships(dt float64) {
	w := e.w

	for _, a := range w.Alive() {
		if a.Stage != agents.StageAdult || w.Partnerships.Partnered(a.ID) {
			continue
		}
		for peer, rel := range a.Relationships {
			if rel.Trust < 60 || rel.Love < 50 {
				continue
			}
			b := w.Agent(peer)
			if b == nil || !b.Alive {
				continue
			}
			if p := w.Partnerships.TryForm(w.Tick, []*agents.Agent{a, b}); p != nil {
				break
			}
		}
	}

	for _, p := range w.Partnerships.Partnerships {
		var members []*agents.Agent
		for _, id := range p.Members {
			if m := w.Agent(id); m != nil && m.Alive {
				members = append(members, m)
			}
		}
		w.Partnerships.UpdateDesire(p, members)
	}

	for _, birth := range w.Partnerships.Advance(dt) {
		mother := w.Agent(birth.MotherID)
		father := w.Agent(birth.FatherID)
		if mother == nil || father == nil || (!mother.Alive && !father.Alive) {
			// No parent survived to term. The child is never realized.
			slog.Warn("gestation ended with no living parent", "mother", birth.MotherID, "father", birth.FatherID)
			w.Record("lost_birth", "a child was never born; its parents did not live to see it")
			continue
		}
		child := w.Spawner.SpawnChild(w.Tick, mother.Position, mother, father)
		w.Add(child)
		birth.Partnership.Children = append(birth.Partnership.Children, child.ID)
		for _, parent := range []*agents.Agent{mother, father} {
			if !parent.Alive {
				continue
			}
			parent.Feel("joy", 30)
			parent.Feel("love", 25)
			parent.Chronicle.Record(chronicle.Event{
				Tick: w.Tick, Age: parent.Age,
				Type: chronicle.EventChildBorn, Importance: chronicle.LifeChanging,
				Title:       "New Life",
				Description: w.describeBirth(child, mother, father),
				Impact:      90,
				RelatedIDs:  []uint64{uint64(child.ID)},
				Tags:        []string{"birth", "family"},
			})
		}
		w.Record("birth", w.describeBirth(child, mother, father))
	}
}

// deaths ends lives that have run out, keeps their legacy, dissolves
// partnerships left short, and notifies OnDeath for each ended life.
func (e *Engine) deaths() {
	w := e.w
	for _, a := range w.Agents {
		cause, dead := a.CheckDeath()
		if !dead {
			continue
		}
		a.Die(w.Tick, cause)
		legacy := a.BuildLegacy()
		w.Legacies = append(w.Legacies, legacy)
		w.Record("death", fmt.Sprintf("%s died of %s at age %.0f", a.Name, cause, a.Age))

		if e.OnDeath != nil {
			e.OnDeath(a, legacy)
		}
	}

	for _, gone := range w.Partnerships.Dissolve(func(id agents.AgentID) bool {
		a := w.Agent(id)
		return a != nil && a.Alive
	}) {
		w.Record("partnership_ended", fmt.Sprintf("a partnership of %d ended with its members", len(gone.Members)))
	}
}

func goalState(tick uint64, a *agents.Agent) goals.State {
	return goals.State{
		Tick:              tick,
		Age:               a.Age,
		Stage:             string(a.Stage),
		NeedsMean:         a.Needs.Mean(),
		SocialNeed:        a.Needs.Social,
		EvolutionLevel:    a.EvolutionLevel,
		RelationshipCount: len(a.Relationships),
		MeaningfulBonds:   a.MeaningfulBonds(),
		Discoveries:       len(a.Know.Discoveries),
		Creations:         len(a.Know.Creations),
	}
}

// applyRewards feeds completed-goal rewards back into the agent.
func (e *Engine) applyRewards(a *agents.Agent, rewards []goals.Reward) {
	for _, r := range rewards {
		a.Evolve(r.EvolutionPoints)
		switch r.EmotionBonus {
		case "relief":
			a.Feel("suffering", -20)
		case "joy":
			a.Feel("joy", 30)
		case "love":
			a.Feel("love", 25)
			a.Satisfy(agents.NeedLove, 20)
		case "fulfillment":
			a.Satisfy(agents.NeedPurpose, 40)
			a.Feel("gratitude", 20)
		case "bliss":
			a.Feel("joy", 40)
			a.Feel("healing", 30)
		}
	}
}
