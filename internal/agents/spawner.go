package agents

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/living-world/internal/chronicle"
	"github.com/talgya/living-world/internal/goals"
	"github.com/talgya/living-world/internal/skills"
	"github.com/talgya/living-world/internal/world"
)

// DefaultMaxAge is the natural lifespan in simulated seconds.
const DefaultMaxAge = 1000

var namePrefixes = []string{
	"Ael", "Bry", "Cal", "Dor", "Ely", "Fen", "Gal", "Hal",
	"Ira", "Jun", "Kel", "Lys", "Mor", "Nia", "Ori", "Pax",
	"Quin", "Rho", "Sol", "Tam", "Una", "Vel", "Wyn", "Zan",
}

var nameSuffixes = []string{
	"ara", "eth", "iel", "one", "ura", "yss", "and", "eil",
	"ith", "ova", "une", "ael",
}

// Spawner mints agents with seeded randomness so worlds are reproducible.
type Spawner struct {
	rng    *rand.Rand
	nextID AgentID
}

// NewSpawner seeds the spawner. The same seed yields the same lineage of
// names, genetics and IDs.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed)), nextID: 1}
}

// Advance moves the ID counter past an already-used ID. Used on load to
// resume numbering after persisted agents.
func (s *Spawner) Advance(past AgentID) {
	if past >= s.nextID {
		s.nextID = past + 1
	}
}

func (s *Spawner) name() string {
	return namePrefixes[s.rng.Intn(len(namePrefixes))] + nameSuffixes[s.rng.Intn(len(nameSuffixes))]
}

// RandomGenetics rolls a fresh disposition, each trait 20–80.
func (s *Spawner) RandomGenetics() Genetics {
	roll := func() float64 { return 20 + s.rng.Float64()*60 }
	return Genetics{
		Curiosity: roll(), Empathy: roll(), Resilience: roll(),
		Creativity: roll(), Sociability: roll(), Vitality: roll(),
		CraftAptitude: roll(), MindAptitude: roll(),
		HeartAptitude: roll(), SpiritAptitude: roll(),
	}
}

// Spawn creates a founding agent at pos.
func (s *Spawner) Spawn(tick uint64, pos world.Point) *Agent {
	return s.spawn(tick, pos, s.name(), s.RandomGenetics(), 0, nil, nil)
}

func (s *Spawner) spawn(tick uint64, pos world.Point, name string, gen Genetics, evolution float64, beliefs map[string]float64, seedXP map[skills.SkillType]float64) *Agent {
	id := s.nextID
	s.nextID++

	a := &Agent{
		ID:       id,
		Name:     name,
		MaxAge:   DefaultMaxAge,
		Stage:    StageNewborn,
		Health:   100,
		Alive:    true,
		BornTick: tick,
		Needs: NeedsState{
			Hunger: 80, Energy: 90, Social: 50, Purpose: 30,
			Growth: 40, Safety: 70, Love: 20,
		},
		Genetics:       gen,
		Beliefs:        beliefs,
		Position:       pos,
		CurrentAction:  ActionIdle,
		EvolutionLevel: evolution,
	}

	a.Chronicle = chronicle.New(uint64(id), name, a.MaxAge, tick)
	a.Skills = skills.NewTracker(name, a.Chronicle)
	if seedXP != nil {
		a.Skills.SeedXP(seedXP)
	}
	a.Goals = goals.NewTracker(name, a.Chronicle, goals.State{
		Tick: tick, Stage: string(a.Stage), NeedsMean: a.Needs.Mean(),
	})

	slog.Info("agent born", "agent", name, "id", id, "pos", pos)
	return a
}

// SpawnSuccessor creates the reborn continuation of a dead agent. The
// successor keeps the name with a generational mark, 30% of the evolution
// level, 30% of each skill's experience and half the strength of each
// belief. Memories do not carry over; only one inherited echo does.
func (s *Spawner) SpawnSuccessor(tick uint64, pos world.Point, of *Agent) *Agent {
	beliefs := make(map[string]float64, len(of.Beliefs))
	for b, v := range of.Beliefs {
		beliefs[b] = v * 0.5
	}

	seedXP := make(map[skills.SkillType]float64)
	for st, sk := range of.Skills.Skills {
		if sk.XP > 0 {
			seedXP[st] = sk.XP * 0.3
		}
	}

	child := s.spawn(tick, pos, of.Name+" Reborn", of.Genetics, of.EvolutionLevel*0.3, beliefs, seedXP)
	child.Remember(Experience{
		Tick: tick, Type: ExpInherited,
		Description: fmt.Sprintf("A life once lived as %s echoes faintly within", of.Name),
		Impact:      20,
	})
	return child
}

// mutate blends two parental trait values: mean plus a uniform mutation in
// [-10, 10], clamped to 0–100.
func (s *Spawner) mutate(a, b float64) float64 {
	return clamp((a+b)/2+(s.rng.Float64()*20-10), 0, 100)
}

// BlendGenetics mixes two parents' genetics with mutation.
func (s *Spawner) BlendGenetics(a, b Genetics) Genetics {
	return Genetics{
		Curiosity:      s.mutate(a.Curiosity, b.Curiosity),
		Empathy:        s.mutate(a.Empathy, b.Empathy),
		Resilience:     s.mutate(a.Resilience, b.Resilience),
		Creativity:     s.mutate(a.Creativity, b.Creativity),
		Sociability:    s.mutate(a.Sociability, b.Sociability),
		Vitality:       s.mutate(a.Vitality, b.Vitality),
		CraftAptitude:  s.mutate(a.CraftAptitude, b.CraftAptitude),
		MindAptitude:   s.mutate(a.MindAptitude, b.MindAptitude),
		HeartAptitude:  s.mutate(a.HeartAptitude, b.HeartAptitude),
		SpiritAptitude: s.mutate(a.SpiritAptitude, b.SpiritAptitude),
	}
}

// SpawnChild creates a newborn from two parents: blended genetics, a fresh
// name, and one inherited memory from each parent's most impactful moment.
func (s *Spawner) SpawnChild(tick uint64, pos world.Point, mother, father *Agent) *Agent {
	child := s.spawn(tick, pos, s.name(), s.BlendGenetics(mother.Genetics, father.Genetics), 0, nil, nil)

	for _, parent := range []*Agent{mother, father} {
		if exp, ok := strongestMemory(parent); ok {
			child.Remember(Experience{
				Tick: tick, Type: ExpInherited,
				Description:  fmt.Sprintf("An echo of %s: %s", parent.Name, exp.Description),
				Impact:       exp.Impact * 0.3,
				Participants: []AgentID{parent.ID},
			})
		}
	}
	return child
}

func strongestMemory(a *Agent) (Experience, bool) {
	var best Experience
	found := false
	for _, e := range a.Experiences {
		if e.Type == ExpInherited {
			continue
		}
		if !found || abs(e.Impact) > abs(best.Impact) {
			best, found = e, true
		}
	}
	return best, found
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
