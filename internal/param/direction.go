package param

// Direction is one end of an orthogonal axis. Horizontal directions are
// side-relative (inward = toward the midline) so both sides share one
// definition.
type Direction int

const (
	Up Direction = iota
	Down
	Inward
	Outward
	Forward
	Back
)

// Directions lists every direction in axis order.
var Directions = []Direction{Up, Down, Inward, Outward, Forward, Back}

var directionNames = [...]string{"up", "down", "inward", "outward", "forward", "back"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// Opposite returns the other end of the same axis.
func (d Direction) Opposite() Direction {
	if d%2 == 0 {
		return d + 1
	}
	return d - 1
}

// ParseDirection is the inverse of String.
func ParseDirection(s string) (Direction, bool) {
	for i, n := range directionNames {
		if n == s {
			return Direction(i), true
		}
	}
	return 0, false
}
