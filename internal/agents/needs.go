package agents

// Per-simulated-second decay for each need. Safety erodes slowest;
// hunger fastest.
var needDecay = map[NeedName]float64{
	NeedHunger:  0.05,
	NeedEnergy:  0.03,
	NeedSocial:  0.02,
	NeedGrowth:  0.015,
	NeedPurpose: 0.01,
	NeedLove:    0.01,
	NeedSafety:  0.005,
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01e forces a 0–100 emotion or need back in range.
func Clamp01e(v float64) float64 { return clamp(v, 0, 100) }

// Decay advances every need by dt simulated seconds and lets the
// emotional state react to the new vitals.
func (a *Agent) Decay(dt float64) {
	a.Needs.Hunger = clamp(a.Needs.Hunger-needDecay[NeedHunger]*dt, 0, 100)
	a.Needs.Energy = clamp(a.Needs.Energy-needDecay[NeedEnergy]*dt, 0, 100)
	a.Needs.Social = clamp(a.Needs.Social-needDecay[NeedSocial]*dt, 0, 100)
	a.Needs.Growth = clamp(a.Needs.Growth-needDecay[NeedGrowth]*dt, 0, 100)
	a.Needs.Purpose = clamp(a.Needs.Purpose-needDecay[NeedPurpose]*dt, 0, 100)
	a.Needs.Love = clamp(a.Needs.Love-needDecay[NeedLove]*dt, 0, 100)
	a.Needs.Safety = clamp(a.Needs.Safety-needDecay[NeedSafety]*dt, 0, 100)

	a.updateEmotions(dt)
	a.drainHealth(dt)
}

// updateEmotions couples emotions to the vitals. Suffering and sadness
// track scarce needs while healing tracks abundance; joy and gratitude
// bloom only when life is broadly good; fear only recedes while safety
// is strong.
func (a *Agent) updateEmotions(dt float64) {
	mean := a.Needs.Mean()

	switch {
	case mean < 40:
		a.Emotions.Suffering = clamp(a.Emotions.Suffering+0.1*dt, 0, 100)
		a.Emotions.Healing = clamp(a.Emotions.Healing-0.05*dt, 0, 100)
		a.Emotions.Sadness = clamp(a.Emotions.Sadness+0.08*dt, -100, 100)
	case mean > 60:
		a.Emotions.Suffering = clamp(a.Emotions.Suffering-0.08*dt, 0, 100)
		a.Emotions.Healing = clamp(a.Emotions.Healing+0.06*dt, 0, 100)
		a.Emotions.Sadness = clamp(a.Emotions.Sadness-0.06*dt, -100, 100)
	}

	if mean > 70 {
		a.Emotions.Joy = clamp(a.Emotions.Joy+0.05*dt, -100, 100)
		a.Emotions.Gratitude = clamp(a.Emotions.Gratitude+0.03*dt, 0, 100)
	} else {
		a.Emotions.Joy = clamp(a.Emotions.Joy-0.03*dt, -100, 100)
	}

	if a.Needs.Safety > 70 {
		a.Emotions.Fear = clamp(a.Emotions.Fear-0.1*dt, -100, 100)
	}

	a.Emotions.Anger = clamp(a.Emotions.Anger-0.04*dt, -100, 100)
}

// drainHealth bleeds health while hunger or energy is critical and lets
// it recover slowly while both are comfortable. Vitality-rich genetics
// recover faster.
func (a *Agent) drainHealth(dt float64) {
	if a.Needs.Hunger < 20 {
		a.Health = clamp(a.Health-0.1*dt, 0, 100)
	}
	if a.Needs.Energy < 20 {
		a.Health = clamp(a.Health-0.05*dt, 0, 100)
	}
	if a.Needs.Hunger > 50 && a.Needs.Energy > 50 && a.Health < 100 {
		regen := 0.02 * (1 + a.Genetics.Vitality/200)
		a.Health = clamp(a.Health+regen*dt, 0, 100)
	}
}

// Satisfy raises one need by amount, clamped.
func (a *Agent) Satisfy(need NeedName, amount float64) {
	switch need {
	case NeedHunger:
		a.Needs.Hunger = clamp(a.Needs.Hunger+amount, 0, 100)
	case NeedEnergy:
		a.Needs.Energy = clamp(a.Needs.Energy+amount, 0, 100)
	case NeedSocial:
		a.Needs.Social = clamp(a.Needs.Social+amount, 0, 100)
	case NeedPurpose:
		a.Needs.Purpose = clamp(a.Needs.Purpose+amount, 0, 100)
	case NeedGrowth:
		a.Needs.Growth = clamp(a.Needs.Growth+amount, 0, 100)
	case NeedSafety:
		a.Needs.Safety = clamp(a.Needs.Safety+amount, 0, 100)
	case NeedLove:
		a.Needs.Love = clamp(a.Needs.Love+amount, 0, 100)
	}
}

// Feel shifts one emotion by delta, clamped.
func (a *Agent) Feel(emotion string, delta float64) {
	switch emotion {
	case "joy":
		a.Emotions.Joy = clamp(a.Emotions.Joy+delta, -100, 100)
	case "sadness":
		a.Emotions.Sadness = clamp(a.Emotions.Sadness+delta, -100, 100)
	case "anger":
		a.Emotions.Anger = clamp(a.Emotions.Anger+delta, -100, 100)
	case "fear":
		a.Emotions.Fear = clamp(a.Emotions.Fear+delta, -100, 100)
	case "love":
		a.Emotions.Love = clamp(a.Emotions.Love+delta, 0, 100)
	case "gratitude":
		a.Emotions.Gratitude = clamp(a.Emotions.Gratitude+delta, 0, 100)
	case "suffering":
		a.Emotions.Suffering = clamp(a.Emotions.Suffering+delta, 0, 100)
	case "healing":
		a.Emotions.Healing = clamp(a.Emotions.Healing+delta, 0, 100)
	}
}
