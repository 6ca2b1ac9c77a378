// Package engine owns the simulation loop: the world aggregate, the tick
// pipeline and the lifecycle events that cross agent boundaries.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/living-world/internal/advisory"
	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/buildings"
	"github.com/talgya/living-world/internal/decision"
	"github.com/talgya/living-world/internal/social"
	"github.com/talgya/living-world/internal/world"
)

// WorldEvent is an occurrence at world scope rather than inside one
// agent's chronicle.
type WorldEvent struct {
	Tick        uint64 `json:"tick"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// World is the complete simulation state.
type World struct {
	Tick uint64

	Agents []*agents.Agent
	index  map[agents.AgentID]*agents.Agent

	Field        *world.Field
	Spawner      *agents.Spawner
	Economy      *social.Economy
	Partnerships *social.Registry
	Buildings    *buildings.Registry
	Decisions    *decision.Engine

	Legacies []agents.Legacy
	Events   []WorldEvent

	rng *rand.Rand
}

// NewWorld builds a world from the seed: terrain, registries and the
// founding population. advisor may be nil.
func NewWorld(seed int64, initialAgents int, advisor advisory.Advisor) *World {
	gen := world.DefaultGenConfig()
	gen.Seed = seed
	field := world.Generate(gen)

	rng := rand.New(rand.NewSource(seed))
	w := &World{
		index:        make(map[agents.AgentID]*agents.Agent),
		Field:        field,
		Spawner:      agents.NewSpawner(seed),
		Economy:      social.NewEconomy(),
		Partnerships: social.NewRegistry(rng),
		Buildings:    buildings.NewRegistry(),
		rng:          rng,
	}
	w.Decisions = decision.NewEngine(advisor, decision.Env{Field: field, Rng: rng})

	for i := 0; i < initialAgents; i++ {
		pos := world.Point{
			X: rng.Float64() * gen.Width,
			Y: rng.Float64() * gen.Height,
		}
		w.Add(w.Spawner.Spawn(0, pos))
	}
	return w
}

// Add registers an agent with the world.
func (w *World) Add(a *agents.Agent) {
	w.Agents = append(w.Agents, a)
	w.index[a.ID] = a
}

// Agent looks up an agent by ID, nil if unknown.
func (w *World) Agent(id agents.AgentID) *agents.Agent {
	return w.index[id]
}

// Alive returns the living agents.
func (w *World) Alive() []*agents.Agent {
	var out []*agents.Agent
	for _, a := range w.Agents {
		if a.Alive {
			out = append(out, a)
		}
	}
	return out
}

// Record logs a world-scope event.
func (w *World) Record(kind, desc string) {
	w.Events = append(w.Events, WorldEvent{Tick: w.Tick, Kind: kind, Description: desc})
}

// Rebuild reindexes after a persistence load.
func (w *World) Rebuild() {
	w.index = make(map[agents.AgentID]*agents.Agent, len(w.Agents))
	var maxID agents.AgentID
	for _, a := range w.Agents {
		w.index[a.ID] = a
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	w.Spawner.Advance(maxID)
}

func (w *World) describeBirth(child, mother, father *agents.Agent) string {
	return fmt.Sprintf("%s was born to %s and %s", child.Name, mother.Name, father.Name)
}

func (w *World) logPopulation() {
	alive := len(w.Alive())
	slog.Debug("population", "tick", w.Tick, "alive", alive, "total", len(w.Agents))
}
