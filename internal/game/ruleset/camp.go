package ruleset

// Camp is the side a combatant fights for.
type Camp string

const (
	CampRed  Camp = "red"
	CampBlue Camp = "blue"
)

// Opposite returns the enemy camp. Only two camps exist: red fights blue and
// every other value, blue included, is treated as fighting red.
func (c Camp) Opposite() Camp {
	if c == CampRed {
		return CampBlue
	}
	return CampRed
}

// Valid reports whether c is red or blue.
func (c Camp) Valid() bool { return c == CampRed || c == CampBlue }
