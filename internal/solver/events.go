package solver

// Event detects zero crossings of a scalar function of the state,
// e.g. perihelion passages via the sign change of r·v.
type Event struct {
	// Value is the scalar whose zero crossings are detected
	Value func(t float64, y []float64) float64
	// Direction restricts detection: +1 upward crossings only,
	// -1 downward only, 0 both
	Direction int
}

// Crossing is an interpolated event hit.
type Crossing struct {
	T float64
	Y []float64
}

// Detector tracks an event across integration steps.
type Detector struct {
	event Event
	prevT float64
	prevY []float64
	prevV float64
	armed bool
}

// NewDetector creates a detector for the event
func NewDetector(event Event) *Detector {
	return &Detector{event: event}
}

// Observe feeds the detector one accepted step. When the event function
// crosses zero between the previous and current step, the crossing is
// located by linear interpolation and returned.
func (d *Detector) Observe(t float64, y []float64) (Crossing, bool) {
	v := d.event.Value(t, y)

	if !d.armed {
		d.remember(t, y, v)
		d.armed = true
		return Crossing{}, false
	}

	crossed := false
	switch d.event.Direction {
	case 1:
		crossed = d.prevV < 0 && v >= 0
	case -1:
		crossed = d.prevV > 0 && v <= 0
	default:
		crossed = (d.prevV < 0 && v >= 0) || (d.prevV > 0 && v <= 0)
	}

	if !crossed {
		d.remember(t, y, v)
		return Crossing{}, false
	}

	// Linear interpolation between the bracketing steps
	frac := 0.0
	if d.prevV != v {
		frac = d.prevV / (d.prevV - v)
	}
	hit := Crossing{
		T: d.prevT + (t-d.prevT)*frac,
		Y: make([]float64, len(y)),
	}
	for i := range y {
		hit.Y[i] = d.prevY[i] + (y[i]-d.prevY[i])*frac
	}

	d.remember(t, y, v)
	return hit, true
}

func (d *Detector) remember(t float64, y []float64, v float64) {
	d.prevT = t
	d.prevV = v
	if len(d.prevY) != len(y) {
		d.prevY = make([]float64, len(y))
	}
	copy(d.prevY, y)
}
