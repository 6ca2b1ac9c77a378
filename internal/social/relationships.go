// Package social covers everything that happens between agents: bonds,
// the gift economy, partnerships and reproduction.
package social

import (
	"fmt"
	"math/rand"

	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/skills"
)

// InteractRadius is how close two agents must be to meet.
const InteractRadius = 100.0

// Interact runs one encounter between two nearby agents. Both sides'
// bonds deepen; sociable and empathic dispositions deepen them faster.
// Occasionally one teaches the other something they did not know.
func Interact(a, b *agents.Agent, r *rand.Rand, tick uint64) {
	ra := a.Relationship(b.ID)
	rb := b.Relationship(a.ID)

	warmth := func(x *agents.Agent) float64 { return 1 + (x.Genetics.Sociability+x.Genetics.Empathy)/400 }

	ra.Familiarity = agents.Clamp01e(ra.Familiarity + 3*warmth(a))
	rb.Familiarity = agents.Clamp01e(rb.Familiarity + 3*warmth(b))
	ra.Trust = agents.Clamp01e(ra.Trust + 1.5)
	rb.Trust = agents.Clamp01e(rb.Trust + 1.5)

	a.Satisfy(agents.NeedSocial, 10)
	b.Satisfy(agents.NeedSocial, 10)
	a.Feel("joy", 3)
	b.Feel("joy", 3)

	// Deep familiarity lets affection grow.
	if ra.Familiarity > 50 {
		ra.Love = agents.Clamp01e(ra.Love + 2)
		rb.Love = agents.Clamp01e(rb.Love + 2)
		a.Satisfy(agents.NeedLove, 5)
		b.Satisfy(agents.NeedLove, 5)
	}

	moment := fmt.Sprintf("shared a moment at tick %d", tick)
	ra.Remember(moment)
	rb.Remember(moment)

	a.Remember(agents.Experience{
		Tick: tick, Type: agents.ExpEncounter,
		Description:  fmt.Sprintf("%s spent time together with %s", a.Name, b.Name),
		Impact:       15,
		Participants: []agents.AgentID{b.ID},
	})
	b.Remember(agents.Experience{
		Tick: tick, Type: agents.ExpEncounter,
		Description:  fmt.Sprintf("%s spent time together with %s", b.Name, a.Name),
		Impact:       15,
		Participants: []agents.AgentID{a.ID},
	})

	if r.Float64() < 0.2 {
		shareKnowledge(a, b, r, tick)
	}
}

// shareKnowledge has the better-read agent pass one fact to the other.
func shareKnowledge(a, b *agents.Agent, r *rand.Rand, tick uint64) {
	teacher, student := a, b
	if len(b.Know.Facts) > len(a.Know.Facts) {
		teacher, student = b, a
	}
	if len(teacher.Know.Facts) == 0 {
		return
	}
	fact := teacher.Know.Facts[r.Intn(len(teacher.Know.Facts))]
	if !student.Learn(fact) {
		return
	}
	student.Evolve(0.3)
	student.Satisfy(agents.NeedGrowth, 5)
	teacher.Skills.Gain(skills.SkillTeaching, 3, teacher.Age, tick)
	teacher.Satisfy(agents.NeedPurpose, 5)

	rel := teacher.Relationship(student.ID)
	rel.Respect = agents.Clamp01e(rel.Respect + 2)
}

// DecayBonds lets unattended relationships cool slightly. Familiarity
// never drops below 5 once established; people are not forgotten entirely.
func DecayBonds(a *agents.Agent, dt float64) {
	for _, rel := range a.Relationships {
		if rel.Familiarity > 5 {
			rel.Familiarity -= 0.005 * dt
			if rel.Familiarity < 5 {
				rel.Familiarity = 5
			}
		}
	}
}
