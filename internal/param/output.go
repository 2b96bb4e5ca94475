package param

import (
	"errors"
	"log/slog"
	"math"

	"github.com/san-kum/bodycal/internal/host"
)

// DefaultEpsilon is the smallest change worth sending to the host.
const DefaultEpsilon = 0.001

// Output is the adapter between a computed value and one named host scalar.
// It skips writes that change the value by no more than epsilon and wakes
// the host solver after every real write.
//
// An Output whose name the host does not know is inert: it is reported once
// when bound and never writes.
type Output struct {
	name    string
	params  host.Params
	epsilon float64

	inert   bool
	written bool
	last    float64
	writes  int
}

// Bind creates an Output for name, checking once that the host knows it.
func Bind(name string, params host.Params, epsilon float64, logger *slog.Logger) *Output {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Output{name: name, params: params, epsilon: epsilon}
	if _, err := params.Scalar(name); err != nil {
		o.inert = true
		if errors.Is(err, host.ErrUnknownParameter) {
			logger.Warn("host parameter not found, leaving it inert", "name", name)
		} else {
			logger.Warn("host parameter unreadable, leaving it inert", "name", name, "error", err)
		}
	}
	return o
}

func (o *Output) Name() string     { return o.name }
func (o *Output) Inert() bool      { return o.inert }
func (o *Output) Last() float64    { return o.last }
func (o *Output) Writes() int      { return o.writes }
func (o *Output) Epsilon() float64 { return o.epsilon }

// Write sends v to the host unless the change is within epsilon. It reports
// whether a host write happened.
func (o *Output) Write(v float64) (bool, error) {
	if o == nil || o.inert {
		return false, nil
	}
	if o.written && math.Abs(v-o.last) <= o.epsilon {
		return false, nil
	}
	if err := o.params.SetScalar(o.name, v); err != nil {
		return false, err
	}
	o.params.WakePhysics()
	o.last = v
	o.written = true
	o.writes++
	return true, nil
}

// Forget drops the dedup memory so the next Write always reaches the host.
func (o *Output) Forget() {
	if o != nil {
		o.written = false
	}
}
