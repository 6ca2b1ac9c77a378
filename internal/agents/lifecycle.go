package agents

import (
	"fmt"
	"log/slog"

	"github.com/talgya/living-world/internal/chronicle"
)

// StageForRatio maps lived-fraction of max age to a life stage.
func StageForRatio(ratio float64) LifeStage {
	switch {
	case ratio < 0.02:
		return StageNewborn
	case ratio < 0.1:
		return StageChild
	case ratio < 0.2:
		return StageAdolescent
	case ratio < 0.7:
		return StageAdult
	case ratio < 0.95:
		return StageElder
	default:
		return StageDying
	}
}

// Grow advances age and, if a stage boundary was crossed, moves the agent
// forward. Stages never regress; a loaded agent past a boundary simply
// stays where it is.
func (a *Agent) Grow(dt float64) {
	a.Age += dt
	next := StageForRatio(a.Age / a.MaxAge)
	if a.Stage.Before(next) {
		prev := a.Stage
		a.Stage = next
		slog.Debug("life stage reached", "agent", a.Name, "from", prev, "to", next)
	}
}

// DeathCause describes why an agent died.
type DeathCause string

const (
	DeathOldAge     DeathCause = "old_age"
	DeathStarvation DeathCause = "starvation"
)

// CheckDeath reports whether the agent should die this tick, and why.
func (a *Agent) CheckDeath() (DeathCause, bool) {
	if !a.Alive {
		return "", false
	}
	if a.Age >= a.MaxAge {
		return DeathOldAge, true
	}
	if a.Health <= 0 {
		return DeathStarvation, true
	}
	return "", false
}

// Die marks the agent dead, records the final chronicle event and freezes
// its state. Idempotent.
func (a *Agent) Die(tick uint64, cause DeathCause) {
	if !a.Alive {
		return
	}
	a.Alive = false
	a.Stage = StageDead
	a.CurrentAction = ActionIdle
	a.DecisionPending = false

	desc := fmt.Sprintf("%s's journey ended after %.0f seconds of life", a.Name, a.Age)
	if cause == DeathStarvation {
		desc = fmt.Sprintf("%s faded away, body failing before time", a.Name)
	}
	a.Chronicle.Record(chronicle.Event{
		Tick: tick, Age: a.Age,
		Type:        chronicle.EventDeath,
		Importance:  chronicle.LifeChanging,
		Title:       "The Final Rest",
		Description: desc,
		Impact:      -50,
		Tags:        []string{"death", string(cause)},
	})
	slog.Info("agent died", "agent", a.Name, "cause", cause, "age", a.Age, "evolution", a.EvolutionLevel)
}

// Legacy is what an agent leaves behind at death.
type Legacy struct {
	Name           string              `json:"name"`
	Age            float64             `json:"age"`
	EvolutionLevel float64             `json:"evolution_level"`
	Creations      []string            `json:"creations,omitempty"`
	Discoveries    []string            `json:"discoveries,omitempty"`
	GoalsAchieved  []string            `json:"goals_achieved,omitempty"`
	TopBeliefs     []string            `json:"top_beliefs,omitempty"`
	Story          chronicle.LifeStory `json:"story"`
}

// BuildLegacy assembles the death legacy from the agent's accumulated
// life, including the full synthesized life story.
func (a *Agent) BuildLegacy() Legacy {
	l := Legacy{
		Name:           a.Name,
		Age:            a.Age,
		EvolutionLevel: a.EvolutionLevel,
		Creations:      a.Know.Creations,
		Discoveries:    a.Know.Discoveries,
		GoalsAchieved:  a.Goals.CompletedTitles(),
		TopBeliefs:     a.topBeliefs(3),
	}
	l.Story = a.Chronicle.Story(a.Age, chronicle.Legacy{
		Creations:     l.Creations,
		Discoveries:   l.Discoveries,
		TopBeliefs:    l.TopBeliefs,
		GoalsAchieved: l.GoalsAchieved,
	}, !a.Alive)
	return l
}

func (a *Agent) topBeliefs(n int) []string {
	var out []string
	for i := 0; i < n; i++ {
		best, bestV := "", -1.0
		for b, v := range a.Beliefs {
			seen := false
			for _, o := range out {
				if o == b {
					seen = true
					break
				}
			}
			if !seen && v > bestV {
				best, bestV = b, v
			}
		}
		if best == "" {
			break
		}
		out = append(out, best)
	}
	return out
}
