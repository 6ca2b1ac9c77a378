// Package advisory consults an external guidance service during agent
// decisions. The world must keep running when the service is absent, slow
// or broken, so every consultation is bounded and failure falls back to
// instinct upstream.
package advisory

import (
	"context"
)

// Query carries one agent's situation to the advisor.
type Query struct {
	AgentName    string             `json:"agent_name"`
	Stage        string             `json:"stage"`
	Urgency      string             `json:"urgency,omitempty"` // most deficient need
	Needs        map[string]float64 `json:"needs"`
	Emotions     map[string]float64 `json:"emotions"`
	Beliefs      map[string]float64 `json:"beliefs,omitempty"`
	PriorityGoal string             `json:"priority_goal,omitempty"`
	Question     string             `json:"question"`
}

// Insight is the advisor's answer.
type Insight struct {
	PrimaryInsight     string   `json:"primary_insight"`
	SupportingInsights []string `json:"supporting_insights,omitempty"`
	Confidence         float64  `json:"confidence"` // 0–100
}

// Advisor answers agent queries. Implementations must honor ctx deadlines.
type Advisor interface {
	Advise(ctx context.Context, q Query) (*Insight, error)
}
