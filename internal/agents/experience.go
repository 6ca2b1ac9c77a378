package agents

import (
	"strings"

	"github.com/talgya/living-world/internal/chronicle"
)

// Remember appends an experience, evicting the oldest past the cap, and
// reinforces any beliefs the moment touches.
func (a *Agent) Remember(e Experience) {
	a.Experiences = append(a.Experiences, e)
	if len(a.Experiences) > MaxExperiences {
		a.Experiences = a.Experiences[len(a.Experiences)-MaxExperiences:]
	}
	a.reinforceBeliefs(e)
}

// Think pushes a thought onto the short log.
func (a *Agent) Think(thought string) {
	a.Thoughts = append(a.Thoughts, thought)
	if len(a.Thoughts) > MaxThoughts {
		a.Thoughts = a.Thoughts[len(a.Thoughts)-MaxThoughts:]
	}
}

// Belief formation rules. Strongly positive moments reinforce the warm
// convictions, strongly negative ones the hard-won ones.
var beliefTriggers = []struct {
	substr string
	belief string
	minImp float64
}{
	{"gift", "generosity returns", 20},
	{"love", "love is the foundation", 30},
	{"creat", "creation outlasts the creator", 25},
	{"discover", "the world rewards the curious", 20},
	{"together", "we are stronger together", 20},
	{"heal", "wounds can mend", 15},
}

func (a *Agent) reinforceBeliefs(e Experience) {
	if a.Beliefs == nil {
		a.Beliefs = make(map[string]float64)
	}
	desc := strings.ToLower(e.Description)
	for _, bt := range beliefTriggers {
		if e.Impact >= bt.minImp && strings.Contains(desc, bt.substr) {
			a.Beliefs[bt.belief] = clamp(a.Beliefs[bt.belief]+e.Impact/10, 0, 100)
		}
	}
	if e.Impact <= -30 {
		a.Beliefs["suffering teaches"] = clamp(a.Beliefs["suffering teaches"]+(-e.Impact)/10, 0, 100)
	}
}

// Learn records a fact; duplicates are ignored.
func (a *Agent) Learn(fact string) bool {
	for _, f := range a.Know.Facts {
		if f == fact {
			return false
		}
	}
	a.Know.Facts = append(a.Know.Facts, fact)
	return true
}

// Discover records a discovery and nudges evolution.
func (a *Agent) Discover(what string) {
	a.Know.Discoveries = append(a.Know.Discoveries, what)
	a.EvolutionLevel = clamp(a.EvolutionLevel+0.5, 0, 100)
}

// Create records a creation and nudges evolution.
func (a *Agent) Create(what string) {
	a.Know.Creations = append(a.Know.Creations, what)
	a.EvolutionLevel = clamp(a.EvolutionLevel+1, 0, 100)
}

// Evolve raises evolution level by pts, clamped to 100.
func (a *Agent) Evolve(pts float64) {
	a.EvolutionLevel = clamp(a.EvolutionLevel+pts, 0, 100)
}

// MilestoneState snapshots the fields the chronicle's milestone scan needs.
func (a *Agent) MilestoneState(tick uint64) (s chronicle.MilestoneState) {
	s.Tick = tick
	s.Age = a.Age
	s.RelationshipCount = len(a.Relationships)
	for id, r := range a.Relationships {
		if s.FirstPeerID == 0 || r.Familiarity > s.FirstPeerFamiliarity {
			s.FirstPeerID = uint64(id)
			s.FirstPeerFamiliarity = r.Familiarity
		}
	}
	loved := a.LovedPeers()
	s.LovePeerCount = len(loved)
	if len(loved) > 0 {
		s.LovePeerID = uint64(loved[0])
	}
	s.Suffering = a.Emotions.Suffering
	s.Healing = a.Emotions.Healing
	s.EvolutionLevel = a.EvolutionLevel
	return s
}
