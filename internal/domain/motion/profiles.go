package motion

// Competitor identities with an authored profile.
const (
	Cheetah = "cheetah"
	Dog     = "dog"
	Rabbit  = "rabbit"
	Turtle  = "turtle"
	Snail   = "snail"
)

// DefaultProfiles returns the authored schedules. Rates are tuned so the
// three fast animals all finish close to 3200 but in a different order
// than their base speeds suggest.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		// 600 @5, 2100 @10, 2700 @15, 3200 @17.
		Cheetah: Phases(
			Phase{Start: 0, End: 5, Rate: 120},
			Phase{Start: 5, End: 10, Rate: 300},
			Phase{Start: 10, End: 15, Rate: 120},
			Phase{Start: 15, End: Open, Rate: 250},
		),
		// Naps from 5 to 10, then 1950 left over 9s.
		Rabbit: Phases(
			Phase{Start: 0, End: 5, Rate: 250},
			Phase{Start: 5, End: 10, Rate: 0},
			Phase{Start: 10, End: Open, Rate: 217},
		),
		// ~3206 @17.5.
		Dog: ClosedForm(150, 1.9),
		Turtle: Phases(
			Phase{Start: 0, End: Open, Rate: 60},
		),
		// Booster between 8 and 10.
		Snail: Phases(
			Phase{Start: 0, End: 8, Rate: 15},
			Phase{Start: 8, End: 10, Rate: 250},
			Phase{Start: 10, End: Open, Rate: 15},
		),
	}
}
