package skills

import (
	"testing"

	"github.com/talgya/living-world/internal/chronicle"
)

func newTestTracker() *Tracker {
	return NewTracker("Aelara", chronicle.New(1, "Aelara", 1000, 0))
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   float64
		want int
	}{
		{0, 0},
		{10, 10},
		{40, 20},
		{90, 30},
		{1000, 100},
		{5000, 100}, // capped
	}
	for _, c := range cases {
		if got := LevelForXP(c.xp); got != c.want {
			t.Errorf("LevelForXP(%v) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestLevelsNeverDecrease(t *testing.T) {
	tr := newTestTracker()
	prev := 0
	for i := 0; i < 500; i++ {
		res := tr.Gain(SkillCrafting, 1, 10, uint64(i))
		if res.NewLevel < prev {
			t.Fatalf("level decreased from %d to %d", prev, res.NewLevel)
		}
		prev = res.NewLevel
	}
}

func TestMilestoneFiresOncePerTier(t *testing.T) {
	tr := newTestTracker()
	milestones := 0
	for i := 0; i < 200; i++ {
		if res := tr.Gain(SkillHealing, 1, 10, uint64(i)); res.Milestone == 10 {
			milestones++
			if res.GrowthBoost != 20 || res.JoyBoost != 15 {
				t.Errorf("milestone boosts = %v/%v, want 20/15", res.GrowthBoost, res.JoyBoost)
			}
		}
	}
	if milestones != 1 {
		t.Errorf("level-10 milestone fired %d times, want 1", milestones)
	}
}

func TestMilestoneRecordsChronicleEvent(t *testing.T) {
	chron := chronicle.New(1, "Aelara", 1000, 0)
	tr := NewTracker("Aelara", chron)
	tr.Gain(SkillScience, 50, 10, 5)
	if !chron.Has(chronicle.EventSkillMilestone) {
		t.Error("crossing a milestone should record a chronicle event")
	}
}

func TestProfessionAdoption(t *testing.T) {
	chron := chronicle.New(1, "Aelara", 1000, 0)
	tr := NewTracker("Aelara", chron)
	if tr.Profession.Type != ProfGeneralist {
		t.Fatalf("fresh tracker should be generalist, got %v", tr.Profession.Type)
	}
	// Level 40 farming needs xp >= 160.
	tr.Gain(SkillFarming, 200, 10, 5)
	if tr.Profession.Type != ProfFarmer {
		t.Errorf("profession = %v, want farmer", tr.Profession.Type)
	}
	if !chron.Has(chronicle.EventProfessionAdopted) {
		t.Error("adoption should record a chronicle event")
	}
}

func TestSettledProfessionDoesNotFlap(t *testing.T) {
	tr := newTestTracker()
	tr.Gain(SkillFarming, 200, 10, 1)
	if tr.Profession.Type != ProfFarmer {
		t.Fatalf("setup: expected farmer, got %v", tr.Profession.Type)
	}
	tr.Profession.Level = 6

	// A bigger qualification elsewhere must not displace a settled farmer.
	tr.Gain(SkillBuilding, 1000, 10, 2)
	if tr.Profession.Type != ProfFarmer {
		t.Errorf("settled profession flapped to %v", tr.Profession.Type)
	}
}

func TestAnchorMultiplier(t *testing.T) {
	tr := newTestTracker()
	tr.Gain(SkillFarming, 200, 10, 1) // becomes farmer, anchor farming
	before := tr.Skills[SkillFarming].XP
	tr.Gain(SkillFarming, 10, 10, 2)
	gained := tr.Skills[SkillFarming].XP - before
	if gained != 15 {
		t.Errorf("anchor gain = %v, want 15 (10 * 1.5)", gained)
	}

	before = tr.Skills[SkillCombat].XP
	tr.Gain(SkillCombat, 10, 10, 3)
	if got := tr.Skills[SkillCombat].XP - before; got != 10 {
		t.Errorf("non-anchor gain = %v, want 10", got)
	}
}

func TestSeedXP(t *testing.T) {
	tr := newTestTracker()
	tr.SeedXP(map[SkillType]float64{SkillCrafting: 90})
	if tr.Level(SkillCrafting) != 30 {
		t.Errorf("seeded level = %d, want 30", tr.Level(SkillCrafting))
	}
}

func TestTopSkillsStableOrder(t *testing.T) {
	tr := newTestTracker()
	tr.SeedXP(map[SkillType]float64{SkillArtistry: 90, SkillBuilding: 90, SkillScience: 250})
	top := tr.TopSkills(3)
	if len(top) != 3 {
		t.Fatalf("expected 3 skills, got %d", len(top))
	}
	if top[0].Type != SkillScience {
		t.Errorf("top skill = %v, want science", top[0].Type)
	}
	// Equal levels break ties by name.
	if top[1].Type != SkillArtistry || top[2].Type != SkillBuilding {
		t.Errorf("tie order = %v, %v; want artistry, building", top[1].Type, top[2].Type)
	}
}

func TestSummaryCarriesTotalXP(t *testing.T) {
	tr := newTestTracker()
	tr.Gain(SkillCrafting, 40, 10, 1)
	tr.Gain(SkillScience, 20, 10, 2)
	if got := tr.TotalXP(); got != 60 {
		t.Errorf("TotalXP = %v, want 60", got)
	}
	if sum := tr.Summarize(); sum.TotalXP != 60 {
		t.Errorf("summary total XP = %v, want 60", sum.TotalXP)
	}
}
