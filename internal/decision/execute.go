package decision

import (
	"fmt"
	"math/rand"

	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/skills"
	"github.com/talgya/living-world/internal/world"
)

// Env is the slice of the world an executing action can touch.
type Env struct {
	Field *world.Field
	Rng   *rand.Rand
}

var creationNames = []string{
	"a woven pattern of light", "a song of the morning", "a carved figure",
	"a garden of strange blooms", "a story told in symbols", "a shelter of branches",
	"a painted stone", "a melody for the lost",
}

var discoveryNames = []string{
	"the rhythm of the seasons", "a hidden spring", "the language of birds",
	"a pattern in the stars", "the memory of stones", "a path no one walked",
}

// actionEffect is the uniform residue of one executed action: the skill
// it trains, the XP it grants, and the memory it leaves behind.
type actionEffect struct {
	skill  skills.SkillType
	xp     float64
	impact float64
	memory string
}

var actionEffects = map[agents.ActionKind]actionEffect{
	agents.ActionEat:           {skills.SkillFarming, 2, 5, "ate until the hunger eased"},
	agents.ActionSleep:         {skills.SkillHealing, 1, 3, "slept deeply and woke restored"},
	agents.ActionSocialize:     {skills.SkillDiplomacy, 2, 8, "shared time and talk with others"},
	agents.ActionCreate:        {skills.SkillCrafting, 3, 10, "shaped something new"},
	agents.ActionDestroy:       {skills.SkillCombat, 2, -15, "destroyed something once valued in a storm of feeling"},
	agents.ActionHeal:          {skills.SkillHealing, 3, 8, "tended old wounds and let them close"},
	agents.ActionLearn:         {skills.SkillScience, 3, 8, "studied until something made sense"},
	agents.ActionSeekKnowledge: {skills.SkillExploration, 2, 8, "went looking for what is not yet known"},
	agents.ActionLove:          {skills.SkillSpirituality, 1, 10, "gave love without holding back"},
	agents.ActionWork:          {skills.SkillBuilding, 2, 5, "worked until the day's labor was done"},
	agents.ActionPlay:          {skills.SkillArtistry, 1, 8, "played with no purpose but delight"},
	agents.ActionWander:        {skills.SkillExploration, 1, 4, "wandered without a destination"},
	agents.ActionIdle:          {skills.SkillSpirituality, 0.5, 1, "rested in stillness"},
}

// apply runs the one-shot effect of a newly chosen action: vitals shift,
// movement starts, skills grow, and every action leaves a memory.
func (e *Engine) apply(a *agents.Agent, tick uint64) {
	if e.env.Rng == nil {
		return
	}
	r := e.env.Rng

	switch a.CurrentAction {
	case agents.ActionEat:
		e.moveToward(a, world.ResourceFood)
		a.Satisfy(agents.NeedHunger, 30)
		a.Satisfy(agents.NeedSafety, 2)

	case agents.ActionSleep:
		e.moveToward(a, world.ResourceSanctuary)
		a.Satisfy(agents.NeedEnergy, 40)

	case agents.ActionSocialize:
		a.Satisfy(agents.NeedSocial, 20)
		a.Feel("joy", 5)

	case agents.ActionCreate:
		a.Satisfy(agents.NeedPurpose, 15)
		a.Satisfy(agents.NeedGrowth, 10)
		a.Satisfy(agents.NeedEnergy, -5)
		a.Skills.Gain(skills.SkillArtistry, 2, a.Age, tick)
		// Creativity decides whether the work amounts to something.
		if r.Float64()*100 < 10+a.Genetics.Creativity/4 {
			e.finishCreation(a, r, tick)
		}

	case agents.ActionDestroy:
		a.Feel("anger", -20)
		a.Satisfy(agents.NeedPurpose, -5)

	case agents.ActionHeal:
		e.moveToward(a, world.ResourceSanctuary)
		a.Feel("healing", 15)
		a.Feel("suffering", -15)

	case agents.ActionLearn:
		e.moveToward(a, world.ResourceKnowledge)
		a.Satisfy(agents.NeedGrowth, 20)
		a.Feel("sadness", -3)
		if a.Learn(fmt.Sprintf("lesson of tick %d", tick)) {
			a.Evolve(0.2)
		}

	case agents.ActionSeekKnowledge:
		e.moveToward(a, world.ResourceKnowledge)
		a.Satisfy(agents.NeedGrowth, 15)
		a.Satisfy(agents.NeedPurpose, 5)
		if r.Float64()*100 < 5+a.Genetics.Curiosity/5 {
			what := discoveryNames[r.Intn(len(discoveryNames))]
			a.Discover(what)
			a.Remember(agents.Experience{
				Tick: tick, Type: agents.ExpDiscovery,
				Description: fmt.Sprintf("%s discovered %s", a.Name, what),
				Impact:      35,
			})
		}

	case agents.ActionLove:
		a.Satisfy(agents.NeedLove, 25)
		a.Feel("joy", 10)
		a.Feel("love", 10)

	case agents.ActionWork:
		e.moveToward(a, world.ResourceMaterial)
		a.Satisfy(agents.NeedPurpose, 10)
		a.Satisfy(agents.NeedEnergy, -8)

	case agents.ActionPlay:
		a.Feel("joy", 15)
		a.Satisfy(agents.NeedSocial, 10)
		a.Satisfy(agents.NeedEnergy, -5)

	case agents.ActionWander:
		a.Feel("fear", -3)
		a.Satisfy(agents.NeedSafety, 5)
		a.Position = world.Point{
			X: a.Position.X + r.Float64()*120 - 60,
			Y: a.Position.Y + r.Float64()*120 - 60,
		}

	case agents.ActionIdle:
		a.Satisfy(agents.NeedEnergy, 5)
	}

	if eff, ok := actionEffects[a.CurrentAction]; ok {
		a.Skills.Gain(eff.skill, eff.xp, a.Age, tick)
		a.Remember(agents.Experience{
			Tick: tick, Type: agents.ExpAction,
			Description: fmt.Sprintf("%s %s", a.Name, eff.memory),
			Impact:      eff.impact,
		})
	}
}

func (e *Engine) finishCreation(a *agents.Agent, r *rand.Rand, tick uint64) {
	what := creationNames[r.Intn(len(creationNames))]
	a.Create(what)
	a.Remember(agents.Experience{
		Tick: tick, Type: agents.ExpCreation,
		Description: fmt.Sprintf("%s created %s", a.Name, what),
		Impact:      40,
	})
}

// moveToward steps the agent partway to the nearest site of the given
// kind. Full travel takes several decisions; distance halves each time.
func (e *Engine) moveToward(a *agents.Agent, kind world.ResourceKind) {
	if e.env.Field == nil {
		return
	}
	site, ok := e.env.Field.Nearest(a.Position, kind)
	if !ok {
		return
	}
	a.Position = world.Point{
		X: a.Position.X + (site.Pos.X-a.Position.X)/2,
		Y: a.Position.Y + (site.Pos.Y-a.Position.Y)/2,
	}
}
