package creature

// AbilityModifier converts an ability score into its modifier using floor
// division: floor((score - 10) / 2).
//
// Postcondition: AbilityModifier(10) == 0, AbilityModifier(7) == -2.
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}
