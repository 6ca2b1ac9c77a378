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

// GiftKind is what is being given.
type GiftKind string

const (
	GiftFood      GiftKind = "food"
	GiftKnowledge GiftKind = "knowledge"
	GiftCreation  GiftKind = "creation"
	GiftCare      GiftKind = "care"
	GiftTime      GiftKind = "time"
)

// Motivation is why the gift was given. It scales how deeply the gift
// resonates with the receiver.
type Motivation string

const (
	MotiveAbundance Motivation = "abundance"
	MotiveLove      Motivation = "love"
	MotiveGratitude Motivation = "gratitude"
	MotiveEmpathy   Motivation = "empathy"
	MotiveJoy       Motivation = "joy"
	MotiveDuty      Motivation = "duty"
)

var motivationWeight = map[Motivation]float64{
	MotiveAbundance: 1.0,
	MotiveLove:      2.5,
	MotiveGratitude: 2.0,
	MotiveEmpathy:   1.8,
	MotiveJoy:       1.5,
	MotiveDuty:      0.8,
}

// Gift is one completed act of giving. BondStrength and Resonance are
// computed once at gift time and stored immutably on the record.
type Gift struct {
	ID           string         `json:"id"`
	Tick         uint64         `json:"tick"`
	GiverID      agents.AgentID `json:"giver_id"`
	ReceiverID   agents.AgentID `json:"receiver_id"`
	Kind         GiftKind       `json:"kind"`
	Description  string         `json:"description"`
	BaseValue    float64        `json:"base_value"`
	Motivation   Motivation     `json:"motivation"`
	BondStrength float64        `json:"bond_strength"`
	Resonance    float64        `json:"resonance"`
	Reciprocated bool           `json:"reciprocated"`
}

// Request is an open ask for help, posted when a need runs scarce.
type Request struct {
	ID          string         `json:"id"`
	Tick        uint64         `json:"tick"`
	AgentID     agents.AgentID `json:"agent_id"`
	Kind        GiftKind       `json:"kind"`
	Urgency     float64        `json:"urgency"` // 0–100
	Fulfilled   bool           `json:"fulfilled"`
	FulfillerID agents.AgentID `json:"fulfiller_id,omitempty"`
}

// Economy holds the world's gift history and open requests. Standing is
// never stored; Reputations derives it from the ledger on demand.
type Economy struct {
	Gifts    []*Gift    `json:"gifts"`
	Requests []*Request `json:"requests"`
}

// NewEconomy creates an empty gift economy.
func NewEconomy() *Economy {
	return &Economy{}
}

// needFor maps a gift kind to the need it feeds.
func needFor(kind GiftKind) agents.NeedName {
	switch kind {
	case GiftFood:
		return agents.NeedHunger
	case GiftKnowledge:
		return agents.NeedGrowth
	case GiftCreation:
		return agents.NeedPurpose
	case GiftCare:
		return agents.NeedLove
	default:
		return agents.NeedSocial
	}
}

// BondStrength scores how much a gift deepens the giver's bond: base
// plus resource value, scaled by the motivation and by the trust the
// giver already holds. Pure; recomputed at gift time.
func BondStrength(giver, receiver *agents.Agent, value float64, motive Motivation) float64 {
	strength := (10 + value/5) * motivationWeight[motive]
	if rel, ok := giver.Relationships[receiver.ID]; ok {
		strength *= 1 + rel.Trust/200
	}
	return math.Min(100, strength)
}

// EmotionalResonance scores how deeply the gift lands: resource value,
// doubled when it feeds a need the receiver runs short on, scaled by
// how emotionally alike giver and receiver are. Pure.
func EmotionalResonance(giver, receiver *agents.Agent, kind GiftKind, value float64) float64 {
	resonance := value / 2
	if receiver.Needs.Value(needFor(kind)) < 50 {
		resonance *= 2
	}
	resonance *= 1.5 - emotionalDistance(giver, receiver)/100
	return math.Min(100, resonance)
}

// emotionalDistance is the mean absolute gap across the bonding
// emotions. Alike hearts sit close; opposed ones far apart.
func emotionalDistance(a, b *agents.Agent) float64 {
	return (math.Abs(a.Emotions.Joy-b.Emotions.Joy) +
		math.Abs(a.Emotions.Love-b.Emotions.Love) +
		math.Abs(a.Emotions.Suffering-b.Emotions.Suffering) +
		math.Abs(a.Emotions.Gratitude-b.Emotions.Gratitude)) / 4
}

// Give transfers a gift. Bond strength and emotional resonance are
// computed first, stored on the record, and then drive every side
// effect: both agents feel the gift and both sides of the bond deepen.
func (ec *Economy) Give(tick uint64, giver, receiver *agents.Agent, kind GiftKind, desc string, baseValue float64, motive Motivation) *Gift {
	bond := BondStrength(giver, receiver, baseValue, motive)
	resonance := EmotionalResonance(giver, receiver, kind, baseValue)

	g := &Gift{
		ID:           uuid.NewString(),
		Tick:         tick,
		GiverID:      giver.ID,
		ReceiverID:   receiver.ID,
		Kind:         kind,
		Description:  desc,
		BaseValue:    baseValue,
		Motivation:   motive,
		BondStrength: bond,
		Resonance:    resonance,
	}
	ec.Gifts = append(ec.Gifts, g)

	receiver.Satisfy(needFor(kind), baseValue)
	receiver.Feel("gratitude", resonance/2)
	receiver.Feel("love", bond/5)
	giver.Feel("joy", resonance/3)
	giver.Satisfy(agents.NeedPurpose, 10)
	giver.Satisfy(agents.NeedSocial, 5)

	rg := giver.Relationship(receiver.ID)
	rr := receiver.Relationship(giver.ID)
	rg.Trust = agents.Clamp01e(rg.Trust + bond/5)
	rg.Familiarity = agents.Clamp01e(rg.Familiarity + 10)
	rr.Trust = agents.Clamp01e(rr.Trust + bond/3)
	rr.Familiarity = agents.Clamp01e(rr.Familiarity + 10)
	rr.Love = agents.Clamp01e(rr.Love + resonance/10)
	rr.Remember(fmt.Sprintf("received %s", desc))

	giver.Remember(agents.Experience{
		Tick: tick, Type: agents.ExpGift,
		Description:  fmt.Sprintf("%s gave %s to %s", giver.Name, desc, receiver.Name),
		Impact:       resonance / 2,
		Participants: []agents.AgentID{receiver.ID},
	})
	receiver.Remember(agents.Experience{
		Tick: tick, Type: agents.ExpGift,
		Description:  fmt.Sprintf("%s received a gift of %s from %s", receiver.Name, desc, giver.Name),
		Impact:       resonance / 2,
		Participants: []agents.AgentID{giver.ID},
	})

	if resonance > 30 {
		receiver.Chronicle.Record(chronicle.Event{
			Tick: tick, Age: receiver.Age,
			Type: chronicle.EventGift, Importance: chronicle.Significant,
			Title:       "A Gift That Mattered",
			Description: fmt.Sprintf("%s received %s from %s, given out of %s.", receiver.Name, desc, giver.Name, motive),
			Impact:      resonance,
			RelatedIDs:  []uint64{uint64(giver.ID)},
			Tags:        []string{"gift", string(kind)},
		})
	}

	slog.Debug("gift given", "giver", giver.Name, "receiver", receiver.Name, "kind", kind, "resonance", resonance)
	return g
}

// Reciprocate answers an earlier gift in the opposite direction. Each
// gift can be reciprocated at most once; the return gift carries the
// gratitude motivation and closes the loop.
func (ec *Economy) Reciprocate(tick uint64, original *Gift, giver, receiver *agents.Agent) *Gift {
	if original == nil || original.Reciprocated {
		return nil
	}
	if giver.ID != original.ReceiverID || receiver.ID != original.GiverID {
		return nil
	}
	original.Reciprocated = true
	return ec.Give(tick, giver, receiver, GiftCare,
		fmt.Sprintf("a kindness returned for %s", original.Description),
		original.BaseValue*0.8, MotiveGratitude)
}

// Owed returns the oldest unreciprocated gift the agent has received,
// or nil when the ledger is clean.
func (ec *Economy) Owed(receiver agents.AgentID) *Gift {
	for _, g := range ec.Gifts {
		if g.ReceiverID == receiver && !g.Reciprocated {
			return g
		}
	}
	return nil
}

// Post opens a gift request when an agent's need runs scarce. An agent
// keeps at most one open request.
func (ec *Economy) Post(tick uint64, a *agents.Agent) *Request {
	for _, req := range ec.Requests {
		if req.AgentID == a.ID && !req.Fulfilled {
			return nil
		}
	}
	need, val := a.Needs.MostDeficient()
	if val > 25 {
		return nil
	}
	kind := GiftTime
	switch need {
	case agents.NeedHunger:
		kind = GiftFood
	case agents.NeedGrowth:
		kind = GiftKnowledge
	case agents.NeedLove:
		kind = GiftCare
	case agents.NeedPurpose:
		kind = GiftCreation
	}
	req := &Request{
		ID:      uuid.NewString(),
		Tick:    tick,
		AgentID: a.ID,
		Kind:    kind,
		Urgency: 100 - val*4,
	}
	ec.Requests = append(ec.Requests, req)
	slog.Debug("gift request posted", "agent", a.Name, "kind", kind, "urgency", req.Urgency)
	return req
}

// Fulfill has a willing helper answer an open request. Empathic agents
// with headroom answer out of empathy, the rest out of duty.
func (ec *Economy) Fulfill(tick uint64, req *Request, helper, asker *agents.Agent, r *rand.Rand) *Gift {
	if req == nil || req.Fulfilled {
		return nil
	}
	req.Fulfilled = true
	req.FulfillerID = helper.ID
	motive := MotiveDuty
	if helper.Genetics.Empathy > 50 {
		motive = MotiveEmpathy
	}
	desc := fmt.Sprintf("help with %s", req.Kind)
	return ec.Give(tick, helper, asker, req.Kind, desc, 15+r.Float64()*10, motive)
}

// Open returns unfulfilled requests.
func (ec *Economy) Open() []*Request {
	var out []*Request
	for _, req := range ec.Requests {
		if !req.Fulfilled {
			out = append(out, req)
		}
	}
	return out
}

// Reputation is one agent's derived standing. It is never edited in
// place; every read recomputes it from the ledger.
type Reputation struct {
	AgentID       agents.AgentID             `json:"agent_id"`
	Generosity    float64                    `json:"generosity"`
	Gratitude     float64                    `json:"gratitude"`
	Reliability   float64                    `json:"reliability"`
	GiftsGiven    int                        `json:"gifts_given"`
	GiftsReceived int                        `json:"gifts_received"`
	Bonds         map[agents.AgentID]float64 `json:"bonds,omitempty"`
}

// Reputations folds the gift ledger and the fulfilled requests into
// every agent's standing. Scores start at 50: giving builds generosity
// and per-peer bonds, receiving builds gratitude, answering requests
// builds reliability.
func (ec *Economy) Reputations() map[agents.AgentID]*Reputation {
	reps := make(map[agents.AgentID]*Reputation)
	get := func(id agents.AgentID) *Reputation {
		r, ok := reps[id]
		if !ok {
			r = &Reputation{
				AgentID: id, Generosity: 50, Gratitude: 50, Reliability: 50,
				Bonds: make(map[agents.AgentID]float64),
			}
			reps[id] = r
		}
		return r
	}

	for _, g := range ec.Gifts {
		giver := get(g.GiverID)
		giver.Generosity = math.Min(100, giver.Generosity+g.BondStrength/10)
		giver.GiftsGiven++
		giver.Bonds[g.ReceiverID] = math.Min(100, giver.Bonds[g.ReceiverID]+g.BondStrength)

		recv := get(g.ReceiverID)
		recv.Gratitude = math.Min(100, recv.Gratitude+g.Resonance/10)
		recv.GiftsReceived++
	}
	for _, req := range ec.Requests {
		if req.Fulfilled && req.FulfillerID != 0 {
			helper := get(req.FulfillerID)
			helper.Reliability = math.Min(100, helper.Reliability+req.Urgency/10)
		}
	}
	return reps
}

// ReputationOf folds the ledger for a single agent.
func (ec *Economy) ReputationOf(id agents.AgentID) Reputation {
	if r, ok := ec.Reputations()[id]; ok {
		return *r
	}
	return Reputation{AgentID: id, Generosity: 50, Gratitude: 50, Reliability: 50}
}
