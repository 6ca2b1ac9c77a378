// Life story synthesis: chapters grouped by age range and the epilogue
// derived from aggregate emotional tone.
package chronicle

import (
	"fmt"
	"math"
)

// Tone is the emotional color of a chapter or a whole life.
type Tone string

const (
	ToneJoyful         Tone = "joyful"
	TonePainful        Tone = "painful"
	ToneTransformative Tone = "transformative"
	TonePeaceful       Tone = "peaceful"
)

// Chapter is a grouping of events over one phase of life.
type Chapter struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	AgeStart  float64  `json:"age_start"`
	AgeEnd    float64  `json:"age_end"`
	KeyEvents []Event  `json:"key_events"`
	Tone      Tone     `json:"tone"`
	Lessons   []string `json:"lessons"`
}

// Legacy is what remains of an agent after death.
type Legacy struct {
	Creations     []string `json:"creations"`
	Discoveries   []string `json:"discoveries"`
	TopBeliefs    []string `json:"top_beliefs"`
	GoalsAchieved []string `json:"goals_achieved"`
}

// LifeStory is the closed-form summary of a chronicle.
type LifeStory struct {
	AgentID   uint64    `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	TotalAge  float64   `json:"total_age"`
	Chapters  []Chapter `json:"chapters"`
	Legacy    Legacy    `json:"legacy"`
	Epilogue  string    `json:"epilogue,omitempty"`
}

// chapterSpec fixes the stage taxonomy as fractions of max age.
var chapterSpec = []struct {
	title      string
	start, end float64
}{
	{"Awakening", 0, 0.1},
	{"Discovery", 0.1, 0.2},
	{"Becoming", 0.2, 0.45},
	{"Flourishing", 0.45, 0.7},
	{"Wisdom", 0.7, 1.01},
}

// Chapters buckets events into the stage taxonomy. Chapters with no events
// are omitted.
func (c *Chronicle) Chapters() []Chapter {
	var chapters []Chapter
	for i, spec := range chapterSpec {
		lo := spec.start * c.MaxAge
		hi := spec.end * c.MaxAge

		var events []Event
		sum := 0.0
		for _, e := range c.Events {
			if e.Age >= lo && e.Age < hi {
				events = append(events, e)
				sum += e.Impact
			}
		}
		if len(events) == 0 {
			continue
		}

		mean := sum / float64(len(events))
		var key []Event
		for _, e := range events {
			if e.Importance != Minor {
				key = append(key, e)
			}
		}

		chapters = append(chapters, Chapter{
			Number:    i + 1,
			Title:     spec.title,
			AgeStart:  lo,
			AgeEnd:    hi,
			KeyEvents: key,
			Tone:      toneFor(mean),
			Lessons:   extractLessons(events),
		})
	}
	return chapters
}

func toneFor(meanImpact float64) Tone {
	switch {
	case meanImpact > 60:
		return ToneJoyful
	case meanImpact < -30:
		return TonePainful
	case math.Abs(meanImpact) < 20:
		return TonePeaceful
	default:
		return ToneTransformative
	}
}

// extractLessons is a small rule table over which event types co-occurred.
func extractLessons(events []Event) []string {
	var hasDeepPain, hasHealing, hasLove, hasWisdom bool
	for _, e := range events {
		if e.Impact < -50 {
			hasDeepPain = true
		}
		switch e.Type {
		case EventSufferingOvercame:
			hasHealing = true
		case EventLoveFound:
			hasLove = true
		case EventWisdomGained:
			hasWisdom = true
		}
	}

	var lessons []string
	if hasDeepPain && hasHealing {
		lessons = append(lessons, "Pain can be transformed into growth")
	}
	if hasLove {
		lessons = append(lessons, "Connection is the essence of existence")
	}
	if hasWisdom {
		lessons = append(lessons, "Understanding emerges from experience")
	}
	return lessons
}

// Story synthesizes the full life story. The caller supplies the legacy
// fields it owns (creations, beliefs, goals); dead agents get an epilogue.
func (c *Chronicle) Story(totalAge float64, legacy Legacy, dead bool) LifeStory {
	s := LifeStory{
		AgentID:   c.AgentID,
		AgentName: c.AgentName,
		TotalAge:  totalAge,
		Chapters:  c.Chapters(),
		Legacy:    legacy,
	}
	if dead {
		s.Epilogue = c.epilogue()
	}
	return s
}

func (c *Chronicle) epilogue() string {
	if len(c.Events) == 0 {
		return ""
	}

	sum := 0.0
	significant := 0
	for _, e := range c.Events {
		sum += e.Impact
		if e.Importance != Minor {
			significant++
		}
	}
	mean := sum / float64(len(c.Events))

	switch {
	case mean > 40:
		return fmt.Sprintf("%s lived a rich life, filled with %d meaningful moments. They loved, learned, and left their mark on the world.", c.AgentName, significant)
	case mean < -20:
		return fmt.Sprintf("%s's journey was marked by struggle, but through %d pivotal moments, they found meaning in the darkness.", c.AgentName, significant)
	default:
		return fmt.Sprintf("%s existed with quiet grace, experiencing %d moments that shaped their unique perspective on existence.", c.AgentName, significant)
	}
}
