package engine

import (
	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/chronicle"
	"github.com/talgya/living-world/internal/goals"
	"github.com/talgya/living-world/internal/skills"
	"github.com/talgya/living-world/internal/world"
)

// AgentReport is the public digest of one agent.
type AgentReport struct {
	ID             agents.AgentID      `json:"id"`
	Name           string              `json:"name"`
	Age            float64             `json:"age"`
	Stage          agents.LifeStage    `json:"stage"`
	Health         float64             `json:"health"`
	Alive          bool                `json:"alive"`
	Action         agents.ActionKind   `json:"action"`
	Position       world.Point         `json:"position"`
	Needs          agents.NeedsState   `json:"needs"`
	Emotions       agents.EmotionState `json:"emotions"`
	EvolutionLevel float64             `json:"evolution_level"`
	Relationships  int                 `json:"relationships"`
	Creations      int                 `json:"creations"`
	Discoveries    int                 `json:"discoveries"`
	Destructions   int                 `json:"destructions"`
	Goals          goals.Summary       `json:"goals"`
	Skills         skills.Summary      `json:"skills"`
	LastEvent      string              `json:"last_event,omitempty"`
	Thoughts       []string            `json:"thoughts,omitempty"`
}

// WorldReport is the public digest of the whole world.
type WorldReport struct {
	Tick                uint64       `json:"tick"`
	Alive               int          `json:"alive"`
	Total               int          `json:"total"`
	Partnerships        int          `json:"partnerships"`
	BuildingsStanding   int          `json:"buildings_standing"`
	BuildingsInProgress int          `json:"buildings_in_progress"`
	GiftsGiven          int          `json:"gifts_given"`
	OpenRequests        int          `json:"open_requests"`
	PendingDecisions    int          `json:"pending_decisions"`
	Legacies            int          `json:"legacies"`
	RecentEvents        []WorldEvent `json:"recent_events,omitempty"`
}

// Report assembles the world digest.
func (w *World) Report() WorldReport {
	r := WorldReport{
		Tick:                w.Tick,
		Alive:               len(w.Alive()),
		Total:               len(w.Agents),
		Partnerships:        len(w.Partnerships.Partnerships),
		BuildingsStanding:   len(w.Buildings.Standing()),
		BuildingsInProgress: len(w.Buildings.InProgress()),
		GiftsGiven:          len(w.Economy.Gifts),
		OpenRequests:        len(w.Economy.Open()),
		PendingDecisions:    w.Decisions.Pending(),
		Legacies:            len(w.Legacies),
	}
	if n := len(w.Events); n > 0 {
		start := n - 10
		if start < 0 {
			start = 0
		}
		r.RecentEvents = w.Events[start:]
	}
	return r
}

// ReportAgent assembles one agent's digest, false if the ID is unknown.
func (w *World) ReportAgent(id agents.AgentID) (AgentReport, bool) {
	a := w.Agent(id)
	if a == nil {
		return AgentReport{}, false
	}
	destructions := 0
	for _, exp := range a.Experiences {
		if exp.Type == agents.ExpDestruction {
			destructions++
		}
	}
	rep := AgentReport{
		ID:             a.ID,
		Name:           a.Name,
		Age:            a.Age,
		Stage:          a.Stage,
		Health:         a.Health,
		Alive:          a.Alive,
		Action:         a.CurrentAction,
		Position:       a.Position,
		Needs:          a.Needs,
		Emotions:       a.Emotions,
		EvolutionLevel: a.EvolutionLevel,
		Relationships:  len(a.Relationships),
		Creations:      len(a.Know.Creations),
		Discoveries:    len(a.Know.Discoveries),
		Destructions:   destructions,
		Goals:          a.Goals.Summarize(),
		Skills:         a.Skills.Summarize(),
		Thoughts:       a.Thoughts,
	}
	if n := len(a.Chronicle.Events); n > 0 {
		rep.LastEvent = a.Chronicle.Events[n-1].Title
	}
	return rep, true
}

// Story renders an agent's life chronicle, false if the ID is unknown.
func (w *World) Story(id agents.AgentID) (chronicle.LifeStory, bool) {
	a := w.Agent(id)
	if a == nil {
		return chronicle.LifeStory{}, false
	}
	return a.BuildLegacy().Story, true
}
