package tracker

// Side selects the left or right breast. Per-side state is always indexed by
// Side so that mirrored formulas can share one implementation.
type Side int

const (
	Left Side = iota
	Right
)

// Sides lists both sides in index order.
var Sides = [2]Side{Left, Right}

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Sign is -1 for Left and +1 for Right. Multiplying an anatomical
// left/right quantity by Sign turns it into an outward/inward quantity
// (positive = away from the body's midline).
func (s Side) Sign() float64 {
	if s == Right {
		return 1
	}
	return -1
}

// Outward converts a horizontal angle in anatomical convention
// (positive = toward the character's right) to this side's outward angle.
func (s Side) Outward(angleHorizontal float64) float64 {
	return s.Sign() * angleHorizontal
}

// Suffix is the host naming suffix for per-side parameters and morphs.
func (s Side) Suffix() string {
	if s == Right {
		return "R"
	}
	return "L"
}
