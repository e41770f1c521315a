// Package matcher finds the model transforms that have a counterpart in a space set.
//
// Two transforms match when every pair of components differs by at most
// epsilon. The default epsilon is the smallest positive float32, which makes
// matching a near-exact equality test rather than a tolerant one.
package matcher

import (
	"fmt"
	"math"

	"github.com/aretw0/posematch/pkg/domain"
)

// DefaultEpsilon is the smallest positive float32 value.
const DefaultEpsilon float32 = math.SmallestNonzeroFloat32

// Option configures a Matcher.
type Option func(*Matcher)

// WithEpsilon sets the per-component tolerance.
// It must be finite and non-negative; New reports otherwise.
func WithEpsilon(eps float32) Option {
	return func(m *Matcher) {
		m.epsilon = eps
	}
}

// Matcher compares transforms component-wise within epsilon.
// The zero value is not usable; use New or Default.
type Matcher struct {
	epsilon float32
}

// New creates a Matcher. Without options it uses DefaultEpsilon.
func New(opts ...Option) (*Matcher, error) {
	m := &Matcher{epsilon: DefaultEpsilon}
	for _, opt := range opts {
		opt(m)
	}
	if err := ValidateEpsilon(m.epsilon); err != nil {
		return nil, err
	}
	return m, nil
}

// Default returns a Matcher using DefaultEpsilon.
func Default() *Matcher {
	return &Matcher{epsilon: DefaultEpsilon}
}

// ValidateEpsilon rejects negative and non-finite tolerances.
func ValidateEpsilon(eps float32) error {
	f := float64(eps)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidEpsilon, eps)
	}
	return nil
}

// Epsilon returns the configured tolerance.
func (m *Matcher) Epsilon() float32 {
	return m.epsilon
}

// IsMatching reports whether |a-b| <= epsilon for all 16 component pairs.
// It stops at the first pair outside the tolerance. A NaN component never matches.
func (m *Matcher) IsMatching(a, b domain.Transform) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d := a.At(i, j) - b.At(i, j)
			if d < 0 {
				d = -d
			}
			if !(d <= m.epsilon) {
				return false
			}
		}
	}
	return true
}

// FindMatching returns, in model order, every model transform that matches at
// least one space transform. Each model entry appears at most once.
func (m *Matcher) FindMatching(model, space domain.MatrixSet) domain.MatrixSet {
	matched, _ := m.Partition(model, space)
	return matched
}

// Partition splits model into the transforms that match some space transform
// and those that do not. Both results preserve model order.
func (m *Matcher) Partition(model, space domain.MatrixSet) (matched, unmatched domain.MatrixSet) {
	matched = domain.MatrixSet{}
	unmatched = domain.MatrixSet{}
	for _, mt := range model {
		if m.matchesAny(mt, space) {
			matched = append(matched, mt)
		} else {
			unmatched = append(unmatched, mt)
		}
	}
	return matched, unmatched
}

func (m *Matcher) matchesAny(t domain.Transform, space domain.MatrixSet) bool {
	for _, s := range space {
		if m.IsMatching(t, s) {
			return true
		}
	}
	return false
}

// IsMatching compares two transforms with DefaultEpsilon.
func IsMatching(a, b domain.Transform) bool {
	return Default().IsMatching(a, b)
}

// FindMatching matches model against space with DefaultEpsilon.
func FindMatching(model, space domain.MatrixSet) domain.MatrixSet {
	return Default().FindMatching(model, space)
}
