// Package agents holds the living beings of the world: their vitals,
// emotions, memories, relationships and life course. See doc/design.md
// section 3 for how the pieces fit together.
package agents

import (
	"github.com/talgya/living-world/internal/chronicle"
	"github.com/talgya/living-world/internal/goals"
	"github.com/talgya/living-world/internal/skills"
	"github.com/talgya/living-world/internal/world"
)

// AgentID identifies one agent within a running world.
type AgentID uint64

// LifeStage is a coarse phase of the agent's life, derived from age.
type LifeStage string

const (
	StageNewborn    LifeStage = "newborn"
	StageChild      LifeStage = "child"
	StageAdolescent LifeStage = "adolescent"
	StageAdult      LifeStage = "adult"
	StageElder      LifeStage = "elder"
	StageDying      LifeStage = "dying"
	StageDead       LifeStage = "dead"
)

var stageOrder = map[LifeStage]int{
	StageNewborn:    0,
	StageChild:      1,
	StageAdolescent: 2,
	StageAdult:      3,
	StageElder:      4,
	StageDying:      5,
	StageDead:       6,
}

// Before reports whether s precedes other in the life course.
func (s LifeStage) Before(other LifeStage) bool {
	return stageOrder[s] < stageOrder[other]
}

// ActionKind is what an agent is currently doing.
type ActionKind string

const (
	ActionIdle          ActionKind = "idle"
	ActionWander        ActionKind = "wander"
	ActionEat           ActionKind = "eat"
	ActionSleep         ActionKind = "sleep"
	ActionSocialize     ActionKind = "socialize"
	ActionCreate        ActionKind = "create"
	ActionDestroy       ActionKind = "destroy"
	ActionHeal          ActionKind = "heal"
	ActionLearn         ActionKind = "learn"
	ActionLove          ActionKind = "love"
	ActionSeekKnowledge ActionKind = "seek_knowledge"
	ActionWork          ActionKind = "work"
	ActionPlay          ActionKind = "play"
)

// NeedsState are the agent's vital drives, each 0–100 where 100 is sated.
type NeedsState struct {
	Hunger  float64 `json:"hunger"`
	Energy  float64 `json:"energy"`
	Social  float64 `json:"social"`
	Purpose float64 `json:"purpose"`
	Growth  float64 `json:"growth"`
	Safety  float64 `json:"safety"`
	Love    float64 `json:"love"`
}

// NeedName names one vital drive.
type NeedName string

const (
	NeedHunger  NeedName = "hunger"
	NeedEnergy  NeedName = "energy"
	NeedSocial  NeedName = "social"
	NeedPurpose NeedName = "purpose"
	NeedGrowth  NeedName = "growth"
	NeedSafety  NeedName = "safety"
	NeedLove    NeedName = "love"
)

// Mean averages all seven needs.
func (n NeedsState) Mean() float64 {
	return (n.Hunger + n.Energy + n.Social + n.Purpose + n.Growth + n.Safety + n.Love) / 7
}

// Value returns one need by name.
func (n NeedsState) Value(name NeedName) float64 {
	switch name {
	case NeedHunger:
		return n.Hunger
	case NeedEnergy:
		return n.Energy
	case NeedSocial:
		return n.Social
	case NeedPurpose:
		return n.Purpose
	case NeedGrowth:
		return n.Growth
	case NeedSafety:
		return n.Safety
	case NeedLove:
		return n.Love
	}
	return 0
}

// MostDeficient returns the lowest need and its value.
func (n NeedsState) MostDeficient() (NeedName, float64) {
	name, val := NeedHunger, n.Hunger
	check := func(nm NeedName, v float64) {
		if v < val {
			name, val = nm, v
		}
	}
	check(NeedEnergy, n.Energy)
	check(NeedSocial, n.Social)
	check(NeedPurpose, n.Purpose)
	check(NeedGrowth, n.Growth)
	check(NeedSafety, n.Safety)
	check(NeedLove, n.Love)
	return name, val
}

// EmotionState are the agent's felt intensities. Joy, sadness, anger and
// fear swing between -100 and 100; the rest stay in 0–100.
type EmotionState struct {
	Joy       float64 `json:"joy"`
	Sadness   float64 `json:"sadness"`
	Anger     float64 `json:"anger"`
	Fear      float64 `json:"fear"`
	Love      float64 `json:"love"`
	Gratitude float64 `json:"gratitude"`
	Suffering float64 `json:"suffering"`
	Healing   float64 `json:"healing"`
}

// ExperienceType classifies what kind of memory an experience is.
type ExperienceType string

const (
	ExpAction      ExperienceType = "action"
	ExpEncounter   ExperienceType = "encounter"
	ExpDiscovery   ExperienceType = "discovery"
	ExpCreation    ExperienceType = "creation"
	ExpDestruction ExperienceType = "destruction"
	ExpGift        ExperienceType = "gift"
	ExpInherited   ExperienceType = "inherited"
)

// Experience is one remembered moment. Impact runs -100..100.
type Experience struct {
	Tick         uint64         `json:"tick"`
	Type         ExperienceType `json:"type"`
	Description  string         `json:"description"`
	Impact       float64        `json:"impact"`
	Participants []AgentID      `json:"participants,omitempty"`
}

// MaxSharedExperiences bounds the per-relationship shared memory list.
const MaxSharedExperiences = 20

// Relationship is one agent's view of another. All scores run 0–100.
type Relationship struct {
	PeerID      AgentID  `json:"peer_id"`
	Trust       float64  `json:"trust"`
	Love        float64  `json:"love"`
	Respect     float64  `json:"respect"`
	Familiarity float64  `json:"familiarity"`
	Shared      []string `json:"shared,omitempty"`
}

// Remember appends a shared moment, evicting the oldest past the cap.
func (r *Relationship) Remember(desc string) {
	r.Shared = append(r.Shared, desc)
	if len(r.Shared) > MaxSharedExperiences {
		r.Shared = r.Shared[len(r.Shared)-MaxSharedExperiences:]
	}
}

// Knowledge is what the agent has learned, found and made.
type Knowledge struct {
	Facts       []string `json:"facts,omitempty"`
	Discoveries []string `json:"discoveries,omitempty"`
	Creations   []string `json:"creations,omitempty"`
}

// Genetics are the inheritable disposition, each trait 0–100.
type Genetics struct {
	Curiosity   float64 `json:"curiosity"`
	Empathy     float64 `json:"empathy"`
	Resilience  float64 `json:"resilience"`
	Creativity  float64 `json:"creativity"`
	Sociability float64 `json:"sociability"`
	Vitality    float64 `json:"vitality"`

	CraftAptitude  float64 `json:"craft_aptitude"`
	MindAptitude   float64 `json:"mind_aptitude"`
	HeartAptitude  float64 `json:"heart_aptitude"`
	SpiritAptitude float64 `json:"spirit_aptitude"`
}

// Memory caps. Oldest entries are evicted first.
const (
	MaxExperiences = 100
	MaxThoughts    = 10
)

// Agent is one living being.
type Agent struct {
	ID       AgentID   `json:"id"`
	Name     string    `json:"name"`
	Age      float64   `json:"age"` // simulated seconds lived
	MaxAge   float64   `json:"max_age"`
	Stage    LifeStage `json:"stage"`
	Health   float64   `json:"health"`
	Alive    bool      `json:"alive"`
	BornTick uint64    `json:"born_tick"`

	Needs    NeedsState   `json:"needs"`
	Emotions EmotionState `json:"emotions"`

	Beliefs        map[string]float64 `json:"beliefs,omitempty"`
	Know           Knowledge          `json:"knowledge"`
	Genetics       Genetics           `json:"genetics"`
	EvolutionLevel float64            `json:"evolution_level"`

	Experiences   []Experience              `json:"experiences,omitempty"`
	Relationships map[AgentID]*Relationship `json:"relationships,omitempty"`

	Position      world.Point `json:"position"`
	CurrentAction ActionKind  `json:"current_action"`
	Thoughts      []string    `json:"thoughts,omitempty"`

	// Decision loop bookkeeping, rebuilt on load.
	DecisionPending bool    `json:"-"`
	DecisionTimer   float64 `json:"-"`

	Chronicle *chronicle.Chronicle `json:"-"`
	Goals     *goals.Tracker       `json:"-"`
	Skills    *skills.Tracker      `json:"-"`
}

// Relationship returns the agent's view of peer, creating a fresh one on
// first contact with the usual opening dispositions.
func (a *Agent) Relationship(peer AgentID) *Relationship {
	if a.Relationships == nil {
		a.Relationships = make(map[AgentID]*Relationship)
	}
	r, ok := a.Relationships[peer]
	if !ok {
		r = &Relationship{PeerID: peer, Trust: 50, Love: 30, Respect: 50, Familiarity: 10}
		a.Relationships[peer] = r
	}
	return r
}

// MeaningfulBonds counts relationships with familiarity above 60.
func (a *Agent) MeaningfulBonds() int {
	n := 0
	for _, r := range a.Relationships {
		if r.Familiarity > 60 {
			n++
		}
	}
	return n
}

// LovedPeers returns peers whose love score exceeds 70.
func (a *Agent) LovedPeers() []AgentID {
	var out []AgentID
	for id, r := range a.Relationships {
		if r.Love > 70 {
			out = append(out, id)
		}
	}
	return out
}
