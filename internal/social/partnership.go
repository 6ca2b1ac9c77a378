package social

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/chronicle"
)

// Partnership sizes. Bonds of more than two are rare but allowed.
const (
	MinPartners = 2
	MaxPartners = 4
)

// Formation gates, applied to every pair inside the candidate group.
const (
	partnerTrustFloor = 60.0
	partnerLoveFloor  = 50.0
)

// GestationSeconds is how long a conception takes to come to term.
const GestationSeconds = 10.0

// ConceptionChance bounds conception probability per desire check: full
// desire converts at most 5% of checks.
const ConceptionChance = 0.05

// Gestation is a conception in progress.
type Gestation struct {
	MotherID  agents.AgentID `json:"mother_id"`
	FatherID  agents.AgentID `json:"father_id"`
	Remaining float64        `json:"remaining"`
	StartTick uint64         `json:"start_tick"`
}

// Partnership is a committed bond between 2–4 agents.
type Partnership struct {
	ID         string           `json:"id"`
	Members    []agents.AgentID `json:"members"`
	FormedTick uint64           `json:"formed_tick"`
	Desire     float64          `json:"desire"` // 0–100, recomputed each check
	Gestation  *Gestation       `json:"gestation,omitempty"`
	Children   []agents.AgentID `json:"children,omitempty"`
}

// Has reports whether id is a member.
func (p *Partnership) Has(id agents.AgentID) bool {
	for _, m := range p.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Birth is a completed gestation, for the caller to turn into a child.
type Birth struct {
	Partnership *Partnership
	MotherID    agents.AgentID
	FatherID    agents.AgentID
}

// Registry tracks every partnership in the world.
type Registry struct {
	Partnerships []*Partnership `json:"partnerships"`

	rng *rand.Rand
}

// NewRegistry creates the partnership registry.
func NewRegistry(r *rand.Rand) *Registry {
	return &Registry{rng: r}
}

// Rebind restores the rng after a persistence load.
func (reg *Registry) Rebind(r *rand.Rand) { reg.rng = r }

// Partnered reports whether the agent is already in a partnership.
func (reg *Registry) Partnered(id agents.AgentID) bool {
	for _, p := range reg.Partnerships {
		if p.Has(id) {
			return true
		}
	}
	return false
}

// TryForm forms a partnership from the candidate group if every ordered
// pair clears the trust and love floors and nobody is already committed.
// Returns nil when any gate fails; a low-trust group never slips through.
func (reg *Registry) TryForm(tick uint64, candidates []*agents.Agent) *Partnership {
	if len(candidates) < MinPartners || len(candidates) > MaxPartners {
		return nil
	}
	for _, a := range candidates {
		if !a.Alive || a.Stage != agents.StageAdult || reg.Partnered(a.ID) {
			return nil
		}
	}
	for _, a := range candidates {
		for _, b := range candidates {
			if a.ID == b.ID {
				continue
			}
			rel, ok := a.Relationships[b.ID]
			if !ok || rel.Trust < partnerTrustFloor || rel.Love < partnerLoveFloor {
				return nil
			}
		}
	}

	p := &Partnership{
		ID:         uuid.NewString(),
		FormedTick: tick,
	}
	names := ""
	for i, a := range candidates {
		p.Members = append(p.Members, a.ID)
		if i > 0 {
			names += " and "
		}
		names += a.Name
	}
	reg.Partnerships = append(reg.Partnerships, p)

	for _, a := range candidates {
		a.Feel("love", 20)
		a.Feel("joy", 15)
		a.Satisfy(agents.NeedLove, 30)
		a.Chronicle.Record(chronicle.Event{
			Tick: tick, Age: a.Age,
			Type: chronicle.EventPartnershipFormed, Importance: chronicle.Major,
			Title:       "A Bond for Life",
			Description: fmt.Sprintf("%s joined their lives together.", names),
			Impact:      80,
			Tags:        []string{"partnership", "love"},
		})
	}
	slog.Info("partnership formed", "members", names, "size", len(p.Members))
	return p
}

// UpdateDesire recomputes one partnership's desire to reproduce from
// its members' condition: love in the bond, overall wellbeing, joy,
// safety and purpose each pull their weight, and every child already
// raised dampens the blend. Conception is then sampled stochastically,
// never exceeding ConceptionChance per check.
func (reg *Registry) UpdateDesire(p *Partnership, members []*agents.Agent) {
	if p.Gestation != nil || len(members) < MinPartners {
		return
	}

	var love, wellbeing, joy, safety, purpose float64
	for _, a := range members {
		var pairLove float64
		n := 0
		for _, other := range members {
			if other.ID == a.ID {
				continue
			}
			if rel, ok := a.Relationships[other.ID]; ok {
				pairLove += rel.Love
				n++
			}
		}
		if n > 0 {
			love += pairLove / float64(n)
		}
		wellbeing += a.Needs.Mean()
		joy += math.Max(0, a.Emotions.Joy)
		safety += a.Needs.Safety
		purpose += a.Needs.Purpose
	}
	m := float64(len(members))
	love, wellbeing, joy, safety, purpose = love/m, wellbeing/m, joy/m, safety/m, purpose/m
	children := math.Max(0, 1-float64(len(p.Children))*0.2)

	p.Desire = love*0.30 + wellbeing*0.20 + joy*0.20 + safety*0.15 + purpose*0.10 + children*100*0.05
	if reg.rng.Float64()*100 < p.Desire*ConceptionChance {
		reg.conceive(p, members)
	}
}

func (reg *Registry) conceive(p *Partnership, members []*agents.Agent) {
	p.Desire = 0
	mother := members[reg.rng.Intn(len(members))]
	father := mother
	for father.ID == mother.ID {
		father = members[reg.rng.Intn(len(members))]
	}
	p.Gestation = &Gestation{
		MotherID:  mother.ID,
		FatherID:  father.ID,
		Remaining: GestationSeconds,
	}
	slog.Info("child conceived", "mother", mother.Name, "father", father.Name)
}

// Advance moves every gestation forward by dt simulated seconds and
// returns the births that came to term this tick.
func (reg *Registry) Advance(dt float64) []Birth {
	var births []Birth
	for _, p := range reg.Partnerships {
		if p.Gestation == nil {
			continue
		}
		p.Gestation.Remaining -= dt
		if p.Gestation.Remaining <= 0 {
			births = append(births, Birth{
				Partnership: p,
				MotherID:    p.Gestation.MotherID,
				FatherID:    p.Gestation.FatherID,
			})
			p.Gestation = nil
		}
	}
	return births
}

// Dissolve removes partnerships that have lost members to death until
// fewer than two remain alive. Returns the removed partnerships.
func (reg *Registry) Dissolve(alive func(agents.AgentID) bool) []*Partnership {
	var kept, gone []*Partnership
	for _, p := range reg.Partnerships {
		living := 0
		for _, m := range p.Members {
			if alive(m) {
				living++
			}
		}
		if living >= MinPartners {
			kept = append(kept, p)
		} else {
			gone = append(gone, p)
		}
	}
	reg.Partnerships = kept
	return gone
}
