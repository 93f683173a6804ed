package orbital

import (
	"fmt"
	"math"
	"sort"
)

// CDFEntry is one tabulated point: the running density total up to and
// including Value.
type CDFEntry struct {
	Fraction float64 `json:"fraction"`
	Value    float64 `json:"value"`
}

// CDF is a cumulative distribution built by Riemann-sum accumulation of a
// 1-D density. Points must be added in a consistent traversal order along the
// axis; InverseTransform assumes it.
type CDF struct {
	entries   []CDFEntry
	total     float64
	origin    float64
	hasOrigin bool
}

// NewCDF returns an empty CDF whose cumulative fraction starts at the first
// added point.
func NewCDF(capacity int) *CDF {
	if capacity < 0 {
		capacity = 0
	}
	return &CDF{entries: make([]CDFEntry, 0, capacity)}
}

// NewCDFFrom returns an empty CDF whose cumulative fraction is zero at origin,
// so the first entry's mass is spread over [origin, first value].
func NewCDFFrom(origin float64, capacity int) *CDF {
	c := NewCDF(capacity)
	c.origin, c.hasOrigin = origin, true
	return c
}

// leading reports the span below the first entry that carries its mass.
func (c *CDF) leading() (float64, bool) {
	if !c.hasOrigin || len(c.entries) == 0 || !(c.entries[0].Value > c.origin) {
		return 0, false
	}
	return c.origin, true
}

// AddPoint appends x with cumulative fraction total+w.
func (c *CDF) AddPoint(x, w float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("%w: domain value %g", ErrDomain, x)
	}
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("%w: density contribution %g at x=%g", ErrDomain, w, x)
	}
	c.total += w
	c.entries = append(c.entries, CDFEntry{Fraction: c.total, Value: x})
	return nil
}

// Len is the number of tabulated points.
func (c *CDF) Len() int { return len(c.entries) }

// Total is the last entry's cumulative fraction.
func (c *CDF) Total() float64 { return c.total }

// Entries returns a copy of the tabulated points.
func (c *CDF) Entries() []CDFEntry {
	out := make([]CDFEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Bounds returns the first and last tabulated domain values.
func (c *CDF) Bounds() (lo, hi float64) {
	if len(c.entries) == 0 {
		return 0, 0
	}
	return c.entries[0].Value, c.entries[len(c.entries)-1].Value
}

// Validate reports ErrDegenerateDistribution for an empty CDF or one with no mass.
func (c *CDF) Validate() error {
	if c == nil || len(c.entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrDegenerateDistribution)
	}
	if !(c.total > 0) {
		return fmt.Errorf("%w: total density %g", ErrDegenerateDistribution, c.total)
	}
	return nil
}

// InverseTransform returns the domain value below which a fraction u of the
// total density lies. It binary searches for the first entry whose
// cumulative fraction reaches u·total and interpolates linearly against the
// previous entry.
func (c *CDF) InverseTransform(u float64) (float64, error) {
	if !(u >= 0 && u < 1) {
		return 0, fmt.Errorf("%w: u=%g not in [0, 1)", ErrOutOfRangeFraction, u)
	}
	if err := c.Validate(); err != nil {
		return 0, err
	}

	target := u * c.total
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].Fraction >= target
	})
	if i >= len(c.entries) {
		// u·total rounded above the last fraction
		i = len(c.entries) - 1
	}
	if i == 0 {
		first := c.entries[0]
		if origin, ok := c.leading(); ok && first.Fraction > 0 {
			return origin + target/first.Fraction*(first.Value-origin), nil
		}
		return first.Value, nil
	}

	lo, hi := c.entries[i-1], c.entries[i]
	span := hi.Fraction - lo.Fraction
	if span <= 0 {
		return hi.Value, nil
	}
	t := (target - lo.Fraction) / span
	return lo.Value + t*(hi.Value-lo.Value), nil
}

// CumulativeFractionAt is the forward CDF: the normalised fraction of density
// at or below x, piecewise linear between entries. Values must have been
// added in increasing order.
func (c *CDF) CumulativeFractionAt(x float64) float64 {
	if len(c.entries) == 0 || !(c.total > 0) {
		return 0
	}
	last := c.entries[len(c.entries)-1]
	if x >= last.Value {
		return 1
	}
	if first := c.entries[0]; x < first.Value {
		origin, ok := c.leading()
		if !ok || x <= origin {
			return 0
		}
		return (x - origin) / (first.Value - origin) * first.Fraction / c.total
	}
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].Value >= x
	})
	hi := c.entries[i]
	if i == 0 || hi.Value == x {
		return hi.Fraction / c.total
	}
	lo := c.entries[i-1]
	t := (x - lo.Value) / (hi.Value - lo.Value)
	return (lo.Fraction + t*(hi.Fraction-lo.Fraction)) / c.total
}

// CDFTriple bundles the radial, polar and azimuthal distributions of one
// orbital configuration. It is read-only once built and safe to share
// between goroutines.
type CDFTriple struct {
	Radial    *CDF
	Polar     *CDF
	Azimuthal *CDF
}

// NewCDFTriple bundles three built distributions.
func NewCDFTriple(radial, polar, azimuthal *CDF) *CDFTriple {
	return &CDFTriple{Radial: radial, Polar: polar, Azimuthal: azimuthal}
}

// Validate checks each distribution, reporting which axis failed.
func (t *CDFTriple) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: distributions not built", ErrDegenerateDistribution)
	}
	if err := t.Radial.Validate(); err != nil {
		return fmt.Errorf("radial: %w", err)
	}
	if err := t.Polar.Validate(); err != nil {
		return fmt.Errorf("polar: %w", err)
	}
	if err := t.Azimuthal.Validate(); err != nil {
		return fmt.Errorf("azimuthal: %w", err)
	}
	return nil
}
