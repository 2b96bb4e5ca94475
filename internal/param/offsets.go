package param

// Source names a family of offset contributors.
type Source string

const (
	SourceGravity Source = "gravity"
	SourceForce   Source = "force"
)

// Contributor IDs outside of the directional families.
const (
	NippleErection = "nipple-erection"
	UserOffset     = "user"
)

// Contributor returns the offset slot owned by one directional regime, for
// example "gravity-up". Each slot is independent; applying again replaces
// only that slot.
func Contributor(src Source, d Direction) string {
	return string(src) + "-" + d.String()
}

type contribution struct {
	id    string
	value float64
}

// offsets keeps contributions in insertion order so that the sum is
// reproducible tick to tick.
type offsets []contribution

func (o *offsets) apply(id string, v float64) {
	for i := range *o {
		if (*o)[i].id == id {
			(*o)[i].value = v
			return
		}
	}
	*o = append(*o, contribution{id: id, value: v})
}

func (o *offsets) clear(id string) {
	for i := range *o {
		if (*o)[i].id == id {
			*o = append((*o)[:i], (*o)[i+1:]...)
			return
		}
	}
}

func (o offsets) get(id string) float64 {
	for _, c := range o {
		if c.id == id {
			return c.value
		}
	}
	return 0
}

func (o offsets) sum() float64 {
	s := 0.0
	for _, c := range o {
		s += c.value
	}
	return s
}
