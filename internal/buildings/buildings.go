// Package buildings lets agents raise lasting structures together. A
// building accumulates progress from contributions, completes exactly
// once, and carries properties shaped by whoever worked on it. What a
// building becomes is read off those properties, not declared up front.
package buildings

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/chronicle"
	"github.com/talgya/living-world/internal/skills"
	"github.com/talgya/living-world/internal/world"
)

// Kind is the intended shape of a structure.
type Kind string

const (
	KindShelter     Kind = "shelter"
	KindWorkshop    Kind = "workshop"
	KindGarden      Kind = "garden"
	KindShrine      Kind = "shrine"
	KindHall        Kind = "hall"
	KindLibrary     Kind = "library"
	KindObservatory Kind = "observatory"
	KindMonument    Kind = "monument"
)

type plan struct {
	effort   float64 // total progress units to complete
	skill    skills.SkillType
	capacity int
	boosts   agents.NeedName // the need occupants recover
}

var plans = map[Kind]plan{
	KindShelter:     {effort: 100, skill: skills.SkillBuilding, capacity: 3, boosts: agents.NeedSafety},
	KindWorkshop:    {effort: 150, skill: skills.SkillCrafting, capacity: 2, boosts: agents.NeedPurpose},
	KindGarden:      {effort: 120, skill: skills.SkillFarming, capacity: 4, boosts: agents.NeedHunger},
	KindShrine:      {effort: 180, skill: skills.SkillSpirituality, capacity: 5, boosts: agents.NeedLove},
	KindHall:        {effort: 250, skill: skills.SkillLeadership, capacity: 8, boosts: agents.NeedSocial},
	KindLibrary:     {effort: 200, skill: skills.SkillScience, capacity: 4, boosts: agents.NeedGrowth},
	KindObservatory: {effort: 220, skill: skills.SkillExploration, capacity: 2, boosts: agents.NeedGrowth},
	KindMonument:    {effort: 300, skill: skills.SkillArtistry, capacity: 1, boosts: agents.NeedPurpose},
}

// Properties emerge from who built the structure, each 0–100.
type Properties struct {
	Comfort       float64 `json:"comfort"`
	Beauty        float64 `json:"beauty"`
	Functionality float64 `json:"functionality"`
	Spirit        float64 `json:"spirit"`
}

// Trait is a quality a building earns at completion.
type Trait string

const (
	TraitCollaborative Trait = "collaborative"
	TraitSacred        Trait = "sacred"
	TraitMasterwork    Trait = "masterwork"
	TraitHarmonious    Trait = "harmonious"
)

// Building is one structure, in progress or standing.
type Building struct {
	ID            string                     `json:"id"`
	Kind          Kind                       `json:"kind"`
	Name          string                     `json:"name"`
	Pos           world.Point                `json:"pos"`
	StartedTick   uint64                     `json:"started_tick"`
	CompletedTick uint64                     `json:"completed_tick,omitempty"`
	Progress      float64                    `json:"progress"` // 0–100
	Complete      bool                       `json:"complete"`
	Ruined        bool                       `json:"ruined"`
	Condition     float64                    `json:"condition"`
	Props         Properties                 `json:"properties"`
	Traits        []Trait                    `json:"traits,omitempty"`
	Contributors  map[agents.AgentID]float64 `json:"contributors"`
	Occupants     []agents.AgentID           `json:"occupants,omitempty"`
}

// HasTrait reports whether the building earned the trait.
func (b *Building) HasTrait(t Trait) bool {
	for _, x := range b.Traits {
		if x == t {
			return true
		}
	}
	return false
}

// Registry tracks every structure in the world, standing and ruined.
type Registry struct {
	Buildings []*Building `json:"buildings"`
	Ruins     []string    `json:"ruins,omitempty"` // destruction log
}

// NewRegistry creates an empty building registry.
func NewRegistry() *Registry { return &Registry{} }

// Begin starts a new structure at pos with the founder's first effort.
func (reg *Registry) Begin(tick uint64, founder *agents.Agent, kind Kind, pos world.Point) *Building {
	b := &Building{
		ID:           uuid.NewString(),
		Kind:         kind,
		Name:         fmt.Sprintf("%s's %s", founder.Name, kind),
		Pos:          pos,
		StartedTick:  tick,
		Contributors: make(map[agents.AgentID]float64),
	}
	reg.Buildings = append(reg.Buildings, b)
	slog.Debug("construction begun", "building", b.Name, "kind", kind)
	reg.Contribute(tick, b, founder, 10)
	return b
}

// Contribute adds one agent's effort. Skill in the structure's craft
// multiplies the effort; the contributor's disposition seeps into the
// building's properties. Crossing full progress completes the building,
// exactly once no matter how many contributions land that tick.
func (reg *Registry) Contribute(tick uint64, b *Building, a *agents.Agent, effort float64) {
	if b.Complete || b.Ruined || effort <= 0 {
		return
	}
	p := plans[b.Kind]

	level := 0.0
	if sk, ok := a.Skills.Skills[p.skill]; ok {
		level = float64(sk.Level)
	}
	mult := 1 + level/100
	gained := effort * mult * (100 / p.effort)

	b.Progress += gained
	b.Contributors[a.ID] += gained

	// Who builds shapes what is built.
	w := gained / 100
	b.Props.Comfort = clamp(b.Props.Comfort+(30+a.Genetics.HeartAptitude/2)*w, 0, 100)
	b.Props.Beauty = clamp(b.Props.Beauty+(a.Genetics.Creativity)*w, 0, 100)
	b.Props.Functionality = clamp(b.Props.Functionality+(40+level)*w, 0, 100)
	b.Props.Spirit = clamp(b.Props.Spirit+(a.Genetics.SpiritAptitude)*w, 0, 100)

	a.Skills.Gain(p.skill, 2, a.Age, tick)
	a.Satisfy(agents.NeedPurpose, 3)

	if b.Progress >= 100 {
		reg.complete(tick, b, a)
	}
}

func (reg *Registry) complete(tick uint64, b *Building, finisher *agents.Agent) {
	if b.Complete {
		return
	}
	b.Complete = true
	b.CompletedTick = tick
	b.Progress = 100
	b.Condition = 100

	// Many hands raise every quality of the finished work.
	if n := len(b.Contributors); n > 1 {
		bonus := 5 * float64(n-1)
		b.Props.Comfort = clamp(b.Props.Comfort+bonus, 0, 100)
		b.Props.Beauty = clamp(b.Props.Beauty+bonus, 0, 100)
		b.Props.Functionality = clamp(b.Props.Functionality+bonus, 0, 100)
		b.Props.Spirit = clamp(b.Props.Spirit+bonus, 0, 100)
	}
	b.Traits = deriveTraits(b)

	finisher.Create(b.Name)
	finisher.Chronicle.Record(chronicle.Event{
		Tick: tick, Age: finisher.Age,
		Type: chronicle.EventBuildingCompleted, Importance: chronicle.Major,
		Title:       fmt.Sprintf("%s Stands", b.Name),
		Description: fmt.Sprintf("After long labor, %s was completed by %d hands.", b.Name, len(b.Contributors)),
		Impact:      65,
		Tags:        []string{"building", string(b.Kind)},
	})
	slog.Info("building completed", "building", b.Name, "traits", b.Traits, "contributors", len(b.Contributors))
}

// deriveTraits reads the earned qualities off the finished structure.
func deriveTraits(b *Building) []Trait {
	var ts []Trait
	if len(b.Contributors) >= 3 {
		ts = append(ts, TraitCollaborative)
	}
	if b.Props.Beauty > 85 && b.Props.Spirit > 85 {
		ts = append(ts, TraitSacred)
	}
	if b.Props.Functionality > 95 {
		ts = append(ts, TraitMasterwork)
	}
	if b.Props.Comfort > 80 && b.Props.Beauty > 80 && b.Props.Functionality > 80 && b.Props.Spirit > 80 {
		ts = append(ts, TraitHarmonious)
	}
	return ts
}

// Occupy moves an agent into a standing building if there is room.
func (reg *Registry) Occupy(b *Building, id agents.AgentID) bool {
	if !b.Complete || b.Ruined {
		return false
	}
	if len(b.Occupants) >= plans[b.Kind].capacity {
		return false
	}
	for _, o := range b.Occupants {
		if o == id {
			return true
		}
	}
	b.Occupants = append(b.Occupants, id)
	return true
}

// Vacate removes an agent from the building.
func (reg *Registry) Vacate(b *Building, id agents.AgentID) {
	for i, o := range b.Occupants {
		if o == id {
			b.Occupants = append(b.Occupants[:i], b.Occupants[i+1:]...)
			return
		}
	}
}

// Shelter applies a standing building's effect to one occupant for dt
// simulated seconds. Sacred places also mend the spirit.
func Shelter(b *Building, a *agents.Agent, dt float64) {
	if !b.Complete || b.Ruined {
		return
	}
	p := plans[b.Kind]
	rate := 0.05 * (1 + b.Props.Functionality/200)
	a.Satisfy(p.boosts, rate*dt)
	a.Satisfy(agents.NeedEnergy, 0.05*(b.Props.Comfort/100)*dt)
	if b.HasTrait(TraitSacred) {
		a.Feel("healing", 0.05*dt)
		a.Feel("suffering", -0.05*dt)
	}
	if b.HasTrait(TraitHarmonious) {
		a.Feel("joy", 0.02*dt)
	}
}

// Weather erodes standing buildings. A structure whose condition reaches
// zero falls to ruin and enters the destruction log; masterworks erode
// at half speed.
func (reg *Registry) Weather(tick uint64, dt float64) {
	for _, b := range reg.Buildings {
		if !b.Complete || b.Ruined {
			continue
		}
		rate := 0.01
		if b.HasTrait(TraitMasterwork) {
			rate = 0.005
		}
		b.Condition -= rate * dt
		if b.Condition <= 0 {
			b.Condition = 0
			b.Ruined = true
			b.Occupants = nil
			reg.Ruins = append(reg.Ruins, fmt.Sprintf("%s fell to ruin at tick %d", b.Name, tick))
			slog.Info("building ruined", "building", b.Name)
		}
	}
}

// Standing returns completed, unruined buildings.
func (reg *Registry) Standing() []*Building {
	var out []*Building
	for _, b := range reg.Buildings {
		if b.Complete && !b.Ruined {
			out = append(out, b)
		}
	}
	return out
}

// InProgress returns buildings still under construction.
func (reg *Registry) InProgress() []*Building {
	var out []*Building
	for _, b := range reg.Buildings {
		if !b.Complete && !b.Ruined {
			out = append(out, b)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
