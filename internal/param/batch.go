package param

// Batch pushes many parameters after all handlers have run for a tick, so
// the host never sees a half-updated set.
type Batch []*Parameter

func (b Batch) SetBaseValues(mass, softness, quickness float64) {
	for _, p := range b {
		p.SetBaseValue(mass, softness, quickness)
	}
}

func (b Batch) BeginCalibration() {
	for _, p := range b {
		p.BeginCalibration()
	}
}

func (b Batch) GoLive() {
	for _, p := range b {
		p.GoLive()
	}
}

func (b Batch) Teardown() {
	for _, p := range b {
		p.Teardown()
	}
}

// Push pushes every parameter and returns the total number of host writes
// and the errors encountered, keyed by parameter name.
func (b Batch) Push() (int, map[string]error) {
	total := 0
	var errs map[string]error
	for _, p := range b {
		n, err := p.Push()
		total += n
		if err != nil {
			if errs == nil {
				errs = make(map[string]error)
			}
			errs[p.Name()] = err
		}
	}
	return total, errs
}
