// Package goals tracks each agent's aspirations. Progress is recomputed
// from live agent state every update rather than accumulated, so it can
// never desynchronize from reality.
package goals

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/talgya/living-world/internal/chronicle"
)

// Category groups goals by the drive they serve.
type Category string

const (
	CategorySurvival      Category = "survival"
	CategoryGrowth        Category = "growth"
	CategoryConnection    Category = "connection"
	CategoryLegacy        Category = "legacy"
	CategoryTranscendence Category = "transcendence"
)

// Status is a goal's position in its forward-only life cycle:
// active → in_progress → {completed, abandoned}. Terminal states are final.
type Status string

const (
	StatusActive     Status = "active"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Terminal reports whether a status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Goal is one tracked aspiration.
type Goal struct {
	ID            string   `json:"id"`
	Category      Category `json:"category"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Target        float64  `json:"target"`
	Current       float64  `json:"current"`
	Priority      int      `json:"priority"` // 1–10
	Status        Status   `json:"status"`
	CreatedTick   uint64   `json:"created_tick"`
	CompletedTick uint64   `json:"completed_tick,omitempty"`
}

// Reward is granted once on completion; the caller applies it to the agent.
type Reward struct {
	Category        Category
	EvolutionPoints float64
	EmotionBonus    string // joy, love, fulfillment, relief, bliss
}

var categoryRewards = map[Category]Reward{
	CategorySurvival:      {CategorySurvival, 5, "relief"},
	CategoryGrowth:        {CategoryGrowth, 15, "joy"},
	CategoryConnection:    {CategoryConnection, 10, "love"},
	CategoryLegacy:        {CategoryLegacy, 20, "fulfillment"},
	CategoryTranscendence: {CategoryTranscendence, 30, "bliss"},
}

// State is the live-agent snapshot progress is recomputed from.
type State struct {
	Tick              uint64
	Age               float64
	Stage             string // agents.LifeStage value
	NeedsMean         float64
	SocialNeed        float64
	EvolutionLevel    float64
	RelationshipCount int
	MeaningfulBonds   int // relationships with familiarity > 60
	Discoveries       int
	Creations         int
}

// Tracker owns one agent's goals.
type Tracker struct {
	AgentName string  `json:"agent_name"`
	Goals     []*Goal `json:"goals"`

	chron *chronicle.Chronicle
}

// NewTracker seeds the initial goals appropriate to the agent's life stage.
func NewTracker(name string, chron *chronicle.Chronicle, s State) *Tracker {
	t := &Tracker{AgentName: name, chron: chron}

	switch s.Stage {
	case "newborn", "child":
		t.add(CategorySurvival, "Learn to Thrive", "Master the basics of survival in this world", 100, s.NeedsMean, 9, s.Tick)
	case "adolescent":
		t.add(CategoryConnection, "Form Meaningful Bonds", "Build deep relationships with 3 other beings", 3, float64(s.MeaningfulBonds), 7, s.Tick)
		t.add(CategoryGrowth, "Discover Your Path", "Gain knowledge and evolve beyond basic existence", 50, s.EvolutionLevel, 8, s.Tick)
	case "adult", "elder":
		t.add(CategoryConnection, "Form Meaningful Bonds", "Build deep relationships with 3 other beings", 3, float64(s.MeaningfulBonds), 7, s.Tick)
		t.add(CategoryLegacy, "Leave Your Mark", "Create something that will endure beyond your lifetime", 1, float64(s.Creations), 6, s.Tick)
	}
	if s.EvolutionLevel > 60 {
		t.add(CategoryTranscendence, "Touch the Infinite", "Reach beyond the boundaries of the self", 1, 0, 10, s.Tick)
	}
	return t
}

// Rebind reattaches the chronicle after a persistence load.
func (t *Tracker) Rebind(chron *chronicle.Chronicle) {
	t.chron = chron
}

func (t *Tracker) add(cat Category, title, desc string, target, current float64, priority int, tick uint64) *Goal {
	g := &Goal{
		ID:          uuid.NewString(),
		Category:    cat,
		Title:       title,
		Description: desc,
		Target:      target,
		Current:     current,
		Priority:    priority,
		Status:      StatusActive,
		CreatedTick: tick,
	}
	t.Goals = append(t.Goals, g)
	slog.Debug("goal set", "agent", t.AgentName, "goal", title, "category", cat)
	return g
}

// Update recomputes every open goal's progress from the snapshot, completes
// crossed targets, abandons goals whose eligibility has lapsed, and makes
// sure an eligible agent is never left goal-less. Returns rewards for the
// caller to apply.
func (t *Tracker) Update(s State) []Reward {
	var rewards []Reward

	for _, g := range t.Goals {
		if g.Status.Terminal() {
			continue
		}

		g.Current = t.progressFor(g.Category, s)

		// Dying agents let go of everything but what outlasts them.
		if s.Stage == "dying" && g.Category != CategoryLegacy && g.Category != CategoryTranscendence {
			g.Status = StatusAbandoned
			continue
		}

		if g.Current >= g.Target {
			if r, ok := t.complete(g, s.Tick, s.Age); ok {
				rewards = append(rewards, r)
			}
		} else if g.Current > 0 && g.Status == StatusActive {
			g.Status = StatusInProgress
		}
	}

	if len(t.Active()) == 0 && s.Stage != "dying" && s.Stage != "dead" {
		t.generateDynamic(s)
	}
	return rewards
}

func (t *Tracker) progressFor(cat Category, s State) float64 {
	switch cat {
	case CategorySurvival:
		return s.NeedsMean
	case CategoryGrowth:
		return s.EvolutionLevel
	case CategoryConnection:
		return float64(s.MeaningfulBonds)
	case CategoryLegacy:
		return float64(s.Creations)
	case CategoryTranscendence:
		if s.EvolutionLevel > 80 {
			return 1
		}
		return 0
	}
	return 0
}

// complete finishes a goal exactly once. Re-completing is a no-op.
func (t *Tracker) complete(g *Goal, tick uint64, age float64) (Reward, bool) {
	if g.Status == StatusCompleted {
		return Reward{}, false
	}
	g.Status = StatusCompleted
	g.CompletedTick = tick

	imp := chronicle.Major
	if g.Category == CategoryTranscendence {
		imp = chronicle.LifeChanging
	}
	t.chron.Record(chronicle.Event{
		Tick: tick, Age: age,
		Type:        chronicle.EventGoalAchieved,
		Importance:  imp,
		Title:       fmt.Sprintf("Achievement: %s", g.Title),
		Description: fmt.Sprintf("%s %s", t.AgentName, g.Description),
		Impact:      70 + float64(g.Priority)*3,
		Tags:        []string{"achievement", string(g.Category)},
	})

	slog.Debug("goal completed", "agent", t.AgentName, "goal", g.Title)
	return categoryRewards[g.Category], true
}

// generateDynamic spawns a successor goal from the current situation.
func (t *Tracker) generateDynamic(s State) {
	switch {
	case s.SocialNeed < 40 && s.RelationshipCount < 3:
		t.add(CategoryConnection, "Seek Companionship", "Form at least one new meaningful relationship", 1, 0, 7, s.Tick)
	case s.EvolutionLevel < 50 && s.Discoveries < 10:
		t.add(CategoryGrowth, "Expand Your Mind", "Discover 5 new pieces of knowledge", float64(s.Discoveries)+5, float64(s.Discoveries), 6, s.Tick)
	case s.Stage == "adult" || s.Stage == "elder":
		t.add(CategoryLegacy, "Leave Your Mark", "Create something that will endure beyond your lifetime", float64(s.Creations)+1, float64(s.Creations), 8, s.Tick)
	case s.EvolutionLevel > 70:
		t.add(CategoryTranscendence, "Embrace Unity", "Experience oneness with all beings", 1, 0, 10, s.Tick)
	default:
		t.add(CategorySurvival, "Keep the Flame", "Hold every need above scarcity", 100, s.NeedsMean, 5, s.Tick)
	}
}

// Active returns goals still open.
func (t *Tracker) Active() []*Goal {
	var out []*Goal
	for _, g := range t.Goals {
		if !g.Status.Terminal() {
			out = append(out, g)
		}
	}
	return out
}

// Completed returns finished goals.
func (t *Tracker) Completed() []*Goal {
	var out []*Goal
	for _, g := range t.Goals {
		if g.Status == StatusCompleted {
			out = append(out, g)
		}
	}
	return out
}

// Priority returns the open goal with the highest priority, or nil.
func (t *Tracker) Priority() *Goal {
	var best *Goal
	for _, g := range t.Active() {
		if best == nil || g.Priority > best.Priority {
			best = g
		}
	}
	return best
}

// CompletedTitles lists finished goal titles, for the death legacy.
func (t *Tracker) CompletedTitles() []string {
	var titles []string
	for _, g := range t.Completed() {
		titles = append(titles, g.Title)
	}
	return titles
}

// Summary is the goals digest exposed on agent reports.
type Summary struct {
	Total        int    `json:"total"`
	Active       int    `json:"active"`
	Completed    int    `json:"completed"`
	PriorityGoal string `json:"priority_goal,omitempty"`
}

// Summarize builds the report digest.
func (t *Tracker) Summarize() Summary {
	s := Summary{Total: len(t.Goals), Active: len(t.Active()), Completed: len(t.Completed())}
	if g := t.Priority(); g != nil {
		s.PriorityGoal = g.Title
	}
	return s
}
