// Package skills tracks trainable competencies and the professions they
// unlock. Level is a pure, monotonic function of cumulative experience;
// no skill can decrease.
package skills

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/talgya/living-world/internal/chronicle"
)

// SkillType enumerates the trainable competencies.
type SkillType string

const (
	SkillBuilding     SkillType = "building"
	SkillFarming      SkillType = "farming"
	SkillHealing      SkillType = "healing"
	SkillCrafting     SkillType = "crafting"
	SkillTeaching     SkillType = "teaching"
	SkillLeadership   SkillType = "leadership"
	SkillExploration  SkillType = "exploration"
	SkillArtistry     SkillType = "artistry"
	SkillCombat       SkillType = "combat"
	SkillDiplomacy    SkillType = "diplomacy"
	SkillSpirituality SkillType = "spirituality"
	SkillScience      SkillType = "science"
)

// AllSkills lists every skill type in a stable order.
var AllSkills = []SkillType{
	SkillBuilding, SkillFarming, SkillHealing, SkillCrafting,
	SkillTeaching, SkillLeadership, SkillExploration, SkillArtistry,
	SkillCombat, SkillDiplomacy, SkillSpirituality, SkillScience,
}

// Skill holds one competency's progress.
type Skill struct {
	Type       SkillType `json:"type"`
	XP         float64   `json:"xp"`
	Level      int       `json:"level"`      // 0–100, derived from XP
	Milestones []int     `json:"milestones"` // levels recorded once each
}

// LevelForXP derives the level from cumulative experience:
// floor(sqrt(xp/10)*10), capped at 100.
func LevelForXP(xp float64) int {
	if xp <= 0 {
		return 0
	}
	lvl := int(math.Floor(math.Sqrt(xp/10) * 10))
	if lvl > 100 {
		lvl = 100
	}
	return lvl
}

// ProfessionType enumerates the specializations.
type ProfessionType string

const (
	ProfBuilder    ProfessionType = "builder"
	ProfFarmer     ProfessionType = "farmer"
	ProfHealer     ProfessionType = "healer"
	ProfArtisan    ProfessionType = "artisan"
	ProfTeacher    ProfessionType = "teacher"
	ProfLeader     ProfessionType = "leader"
	ProfExplorer   ProfessionType = "explorer"
	ProfArtist     ProfessionType = "artist"
	ProfGuardian   ProfessionType = "guardian"
	ProfDiplomat   ProfessionType = "diplomat"
	ProfMystic     ProfessionType = "mystic"
	ProfScientist  ProfessionType = "scientist"
	ProfGeneralist ProfessionType = "generalist"
)

// Requirement is a minimum skill level a profession demands.
type Requirement struct {
	Skill    SkillType
	MinLevel int
}

// professionSpec pins each profession's requirements and its anchor skill,
// the skill whose XP gain the profession multiplies.
var professionSpec = map[ProfessionType]struct {
	Requirements []Requirement
	Description  string
	Anchor       SkillType
}{
	ProfBuilder:    {[]Requirement{{SkillBuilding, 40}}, "Master of construction and architecture", SkillBuilding},
	ProfFarmer:     {[]Requirement{{SkillFarming, 40}}, "Provider of sustenance and growth", SkillFarming},
	ProfHealer:     {[]Requirement{{SkillHealing, 40}}, "Mender of wounds and suffering", SkillHealing},
	ProfArtisan:    {[]Requirement{{SkillCrafting, 30}, {SkillArtistry, 30}}, "Creator of beautiful and functional works", SkillCrafting},
	ProfTeacher:    {[]Requirement{{SkillTeaching, 40}, {SkillDiplomacy, 20}}, "Sharer of wisdom and knowledge", SkillTeaching},
	ProfLeader:     {[]Requirement{{SkillLeadership, 40}, {SkillDiplomacy, 30}}, "Guide and organizer of communities", SkillLeadership},
	ProfExplorer:   {[]Requirement{{SkillExploration, 40}}, "Seeker of new frontiers", SkillExploration},
	ProfArtist:     {[]Requirement{{SkillArtistry, 50}}, "Master of creative expression", SkillArtistry},
	ProfGuardian:   {[]Requirement{{SkillCombat, 40}, {SkillLeadership, 20}}, "Protector of the community", SkillCombat},
	ProfDiplomat:   {[]Requirement{{SkillDiplomacy, 50}, {SkillTeaching, 20}}, "Peacemaker and negotiator", SkillDiplomacy},
	ProfMystic:     {[]Requirement{{SkillSpirituality, 50}, {SkillHealing, 30}}, "Keeper of the unseen", SkillSpirituality},
	ProfScientist:  {[]Requirement{{SkillScience, 50}, {SkillExploration, 30}}, "Innovator and researcher", SkillScience},
	ProfGeneralist: {nil, "Jack of all trades, master of none", SkillExploration},
}

// AnchorMultiplier is the XP bonus a non-generalist profession grants its
// anchor skill.
const AnchorMultiplier = 1.5

// Profession is the specialization an agent currently holds. At most one.
type Profession struct {
	Type        ProfessionType `json:"type"`
	Level       int            `json:"level"` // 0–10 mastery
	AdoptedTick uint64         `json:"adopted_tick"`
}

// Tracker owns one agent's skills and profession.
type Tracker struct {
	AgentName  string               `json:"agent_name"`
	Skills     map[SkillType]*Skill `json:"skills"`
	Profession *Profession          `json:"profession"`

	chron *chronicle.Chronicle
}

// NewTracker initializes all skills at zero and adopts generalist.
func NewTracker(name string, chron *chronicle.Chronicle) *Tracker {
	t := &Tracker{
		AgentName: name,
		Skills:    make(map[SkillType]*Skill, len(AllSkills)),
		chron:     chron,
	}
	for _, s := range AllSkills {
		t.Skills[s] = &Skill{Type: s}
	}
	t.Profession = &Profession{Type: ProfGeneralist}
	return t
}

// Rebind reattaches the chronicle after a persistence load.
func (t *Tracker) Rebind(chron *chronicle.Chronicle) {
	t.chron = chron
}

// GainResult reports what a Gain call changed, for the caller to feed back
// into the agent's vital state.
type GainResult struct {
	NewLevel    int
	LeveledUp   bool
	Milestone   int // milestone level reached, 0 if none
	GrowthBoost float64
	JoyBoost    float64
}

// Gain adds experience to a skill. Anchor-skill gains are multiplied by the
// held profession. Milestones (every 10 levels) are recorded once each.
func (t *Tracker) Gain(skill SkillType, amount float64, age float64, tick uint64) GainResult {
	s, ok := t.Skills[skill]
	if !ok || amount <= 0 {
		return GainResult{}
	}

	if t.Profession != nil && t.Profession.Type != ProfGeneralist &&
		professionSpec[t.Profession.Type].Anchor == skill {
		amount *= AnchorMultiplier
	}

	s.XP += amount
	newLevel := LevelForXP(s.XP)
	res := GainResult{NewLevel: newLevel}
	if newLevel <= s.Level {
		return res
	}

	s.Level = newLevel
	res.LeveledUp = true

	// Milestone every 10 levels, recorded once.
	milestone := (newLevel / 10) * 10
	if milestone > 0 && !containsInt(s.Milestones, milestone) {
		s.Milestones = append(s.Milestones, milestone)
		res.Milestone = milestone
		res.GrowthBoost = 20
		res.JoyBoost = 15
		t.recordMilestone(skill, milestone, age, tick)

		// Anchor milestones deepen profession mastery.
		if t.Profession != nil && professionSpec[t.Profession.Type].Anchor == skill && t.Profession.Level < 10 {
			t.Profession.Level++
		}
	}

	t.evaluateProfession(age, tick)
	return res
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func (t *Tracker) recordMilestone(skill SkillType, level int, age float64, tick uint64) {
	imp := chronicle.Significant
	if level >= 50 {
		imp = chronicle.Major
	}
	t.chron.Record(chronicle.Event{
		Tick: tick, Age: age,
		Type:        chronicle.EventSkillMilestone,
		Importance:  imp,
		Title:       fmt.Sprintf("Mastered %s", skill),
		Description: fmt.Sprintf("%s reached level %d in %s", t.AgentName, level, skill),
		Impact:      40 + float64(level)/2,
		Tags:        []string{"skill", "growth", string(skill)},
	})
}

// Level returns the current level of a skill.
func (t *Tracker) Level(skill SkillType) int {
	if s, ok := t.Skills[skill]; ok {
		return s.Level
	}
	return 0
}

// evaluateProfession re-checks unlock eligibility after a level-up. An agent
// already settled into a profession past minimum mastery is not re-evaluated,
// which prevents profession flapping.
func (t *Tracker) evaluateProfession(age float64, tick uint64) {
	if t.Profession != nil && t.Profession.Type != ProfGeneralist && t.Profession.Level > 5 {
		return
	}

	var best ProfessionType
	bestSum := 0
	for _, p := range orderedProfessions {
		spec := professionSpec[p]
		if len(spec.Requirements) == 0 {
			continue
		}
		sum := 0
		met := true
		for _, req := range spec.Requirements {
			lvl := t.Level(req.Skill)
			if lvl < req.MinLevel {
				met = false
				break
			}
			sum += lvl
		}
		if met && sum > bestSum {
			best = p
			bestSum = sum
		}
	}

	if best != "" && (t.Profession == nil || best != t.Profession.Type) {
		t.adopt(best, age, tick)
	}
}

// orderedProfessions gives evaluateProfession a stable iteration order.
var orderedProfessions = []ProfessionType{
	ProfBuilder, ProfFarmer, ProfHealer, ProfArtisan, ProfTeacher, ProfLeader,
	ProfExplorer, ProfArtist, ProfGuardian, ProfDiplomat, ProfMystic, ProfScientist,
}

func (t *Tracker) adopt(p ProfessionType, age float64, tick uint64) {
	spec := professionSpec[p]
	t.Profession = &Profession{Type: p, Level: 1, AdoptedTick: tick}

	slog.Debug("profession adopted", "agent", t.AgentName, "profession", p)

	t.chron.Record(chronicle.Event{
		Tick: tick, Age: age,
		Type:        chronicle.EventProfessionAdopted,
		Importance:  chronicle.Major,
		Title:       fmt.Sprintf("Became a %s", p),
		Description: fmt.Sprintf("%s specialized as a %s: %s", t.AgentName, p, spec.Description),
		Impact:      60,
		Tags:        []string{"profession", "achievement", string(p)},
	})
}

// TopSkills returns the n highest skills by level.
func (t *Tracker) TopSkills(n int) []Skill {
	all := make([]Skill, 0, len(t.Skills))
	for _, s := range t.Skills {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Level != all[j].Level {
			return all[i].Level > all[j].Level
		}
		return all[i].Type < all[j].Type
	})
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// TotalXP sums cumulative experience across all skills.
func (t *Tracker) TotalXP() float64 {
	total := 0.0
	for _, s := range t.Skills {
		total += s.XP
	}
	return total
}

// SeedXP pre-loads skills with inherited experience, used for successors.
func (t *Tracker) SeedXP(perSkill map[SkillType]float64) {
	for skill, xp := range perSkill {
		if s, ok := t.Skills[skill]; ok && xp > 0 {
			s.XP = xp
			s.Level = LevelForXP(xp)
		}
	}
}

// Summary is the skills digest exposed on agent reports.
type Summary struct {
	Profession      ProfessionType `json:"profession"`
	ProfessionLevel int            `json:"profession_level"`
	TopSkills       []Skill        `json:"top_skills"`
	TotalLevel      int            `json:"total_level"`
	TotalXP         float64        `json:"total_xp"`
}

// Summarize builds the report digest.
func (t *Tracker) Summarize() Summary {
	total := 0
	for _, s := range t.Skills {
		total += s.Level
	}
	sum := Summary{TopSkills: t.TopSkills(3), TotalLevel: total, TotalXP: t.TotalXP()}
	if t.Profession != nil {
		sum.Profession = t.Profession.Type
		sum.ProfessionLevel = t.Profession.Level
	}
	return sum
}
