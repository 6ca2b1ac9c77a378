// Package chronicle records each agent's life as an append-only, sampled
// event log, and synthesizes chapters and an epilogue from it at death.
package chronicle

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a life event.
type EventType string

const (
	EventBirth             EventType = "birth"
	EventFriendshipFormed  EventType = "friendship_formed"
	EventLoveFound         EventType = "love_found"
	EventCreationCompleted EventType = "creation_completed"
	EventGoalAchieved      EventType = "goal_achieved"
	EventSufferingOvercame EventType = "suffering_overcame"
	EventWisdomGained      EventType = "wisdom_gained"
	EventTranscendence     EventType = "transcendence"
	EventSkillMilestone    EventType = "skill_milestone"
	EventProfessionAdopted EventType = "profession_adopted"
	EventGift              EventType = "gift"
	EventPartnershipFormed EventType = "partnership_formed"
	EventChildBorn         EventType = "child_born"
	EventBuildingCompleted EventType = "building_completed"
	EventDeath             EventType = "death"
)

// Importance grades how much an event mattered.
type Importance string

const (
	Minor        Importance = "minor"
	Significant  Importance = "significant"
	Major        Importance = "major"
	LifeChanging Importance = "life_changing"
)

// Event is one entry in a chronicle. Immutable once recorded.
type Event struct {
	ID          string     `json:"id"`
	Seq         int        `json:"seq"`
	Timestamp   time.Time  `json:"timestamp"`
	Tick        uint64     `json:"tick"`
	Age         float64    `json:"age"`
	Type        EventType  `json:"type"`
	Importance  Importance `json:"importance"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Impact      float64    `json:"impact"` // -100..100
	RelatedIDs  []uint64   `json:"related_ids,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// Chronicle is an agent's append-only life log. Only moments worth
// retelling are recorded; routine ticks leave no trace.
type Chronicle struct {
	AgentID   uint64  `json:"agent_id"`
	AgentName string  `json:"agent_name"`
	MaxAge    float64 `json:"max_age"`
	Events    []Event `json:"events"`
	seq       int
}

// New creates a chronicle and records the birth event unconditionally.
func New(agentID uint64, name string, maxAge float64, tick uint64) *Chronicle {
	c := &Chronicle{AgentID: agentID, AgentName: name, MaxAge: maxAge}
	c.Record(Event{
		Tick:        tick,
		Age:         0,
		Type:        EventBirth,
		Importance:  LifeChanging,
		Title:       "The Beginning",
		Description: fmt.Sprintf("%s came into existence, a unique consciousness ready to experience the world.", name),
		Impact:      100,
		Tags:        []string{"origin", "new-life"},
	})
	return c
}

// Record appends an event. The caller fills Tick, Age, and the narrative
// fields; identity and ordering are assigned here.
func (c *Chronicle) Record(e Event) Event {
	e.ID = uuid.NewString()
	e.Seq = c.seq
	c.seq++
	e.Timestamp = time.Now()
	c.Events = append(c.Events, e)

	slog.Debug("chronicle event",
		"agent", c.AgentName,
		"type", e.Type,
		"importance", e.Importance,
		"title", e.Title,
	)
	return e
}

// Rehydrate restores the sequence counter after a load, so future events
// keep extending the order rather than restarting it.
func (c *Chronicle) Rehydrate() {
	for _, e := range c.Events {
		if e.Seq >= c.seq {
			c.seq = e.Seq + 1
		}
	}
}

// Has reports whether an event of the given type was ever recorded.
// Linear scan; the log is importance-sampled so it stays small.
func (c *Chronicle) Has(t EventType) bool {
	for _, e := range c.Events {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Recent returns the last n events, newest last.
func (c *Chronicle) Recent(n int) []Event {
	if n > len(c.Events) {
		n = len(c.Events)
	}
	return c.Events[len(c.Events)-n:]
}

// Len returns the number of recorded events.
func (c *Chronicle) Len() int {
	return len(c.Events)
}

// MilestoneState is the slice of agent state the opportunistic milestone
// scan needs. The caller snapshots it each scan.
type MilestoneState struct {
	Tick                 uint64
	Age                  float64
	RelationshipCount    int
	FirstPeerID          uint64 // any peer, used for the first-friendship event
	FirstPeerFamiliarity float64
	LovePeerID           uint64 // peer with love > 70, if exactly one exists
	LovePeerCount        int
	Suffering            float64
	Healing              float64
	EvolutionLevel       float64
}

// AutoRecord checks the idempotent milestone predicates and records any that
// newly hold. Each event type fires at most once per agent, enforced by the
// Has presence check rather than separate flags.
func (c *Chronicle) AutoRecord(m MilestoneState) {
	if m.RelationshipCount == 1 && m.FirstPeerFamiliarity > 50 && !c.Has(EventFriendshipFormed) {
		c.Record(Event{
			Tick: m.Tick, Age: m.Age,
			Type: EventFriendshipFormed, Importance: Significant,
			Title:       "A Friend in the World",
			Description: fmt.Sprintf("%s formed their first meaningful connection with another being.", c.AgentName),
			Impact:      60,
			RelatedIDs:  []uint64{m.FirstPeerID},
			Tags:        []string{"friendship", "connection"},
		})
	}

	if m.LovePeerCount == 1 && !c.Has(EventLoveFound) {
		c.Record(Event{
			Tick: m.Tick, Age: m.Age,
			Type: EventLoveFound, Importance: Major,
			Title:       "Love Awakens",
			Description: fmt.Sprintf("%s discovered the depth of love, a connection that transcends mere existence.", c.AgentName),
			Impact:      85,
			RelatedIDs:  []uint64{m.LovePeerID},
			Tags:        []string{"love", "heart", "connection"},
		})
	}

	if m.Suffering > 80 && m.Healing > 60 && !c.Has(EventSufferingOvercame) {
		c.Record(Event{
			Tick: m.Tick, Age: m.Age,
			Type: EventSufferingOvercame, Importance: Major,
			Title:       "Rising from Darkness",
			Description: fmt.Sprintf("Through immense pain, %s found the strength to heal and grow.", c.AgentName),
			Impact:      -80, // painful but transformative
			Tags:        []string{"healing", "growth", "resilience"},
		})
	}

	if m.EvolutionLevel > 50 && !c.Has(EventWisdomGained) {
		c.Record(Event{
			Tick: m.Tick, Age: m.Age,
			Type: EventWisdomGained, Importance: Major,
			Title:       "Awakening of Consciousness",
			Description: fmt.Sprintf("%s transcended simple existence and gained deeper understanding.", c.AgentName),
			Impact:      70,
			Tags:        []string{"wisdom", "evolution"},
		})
	}

	if m.EvolutionLevel > 80 && !c.Has(EventTranscendence) {
		c.Record(Event{
			Tick: m.Tick, Age: m.Age,
			Type: EventTranscendence, Importance: LifeChanging,
			Title:       "Touching the Infinite",
			Description: fmt.Sprintf("%s experienced a profound connection to something beyond themselves.", c.AgentName),
			Impact:      95,
			Tags:        []string{"transcendence", "unity"},
		})
	}
}
