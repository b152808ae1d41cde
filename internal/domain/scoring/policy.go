// Package scoring turns forecasts and official results into per-user points.
//
// The package is pure: it performs no I/O and keeps no state between calls.
// Callers fetch events, forecasts, results and the policy beforehand and pass
// them in.
package scoring

// Default point values.
const (
	DefaultPolePoints          = 5
	DefaultPosition1Points     = 5
	DefaultPosition2Points     = 3
	DefaultPosition3Points     = 2
	DefaultPosition4To10Points = 1
	DefaultCrashPoints         = 1
)

// slots4To10 is how many finishing slots share the Position4To10 value.
const slots4To10 = 7

// Policy is the point table used by a scoring run.
type Policy struct {
	Pole          int `json:"pole_points" yaml:"pole_points"`
	Position1     int `json:"position1_points" yaml:"position1_points"`
	Position2     int `json:"position2_points" yaml:"position2_points"`
	Position3     int `json:"position3_points" yaml:"position3_points"`
	Position4To10 int `json:"position4to10_points" yaml:"position4to10_points"`
	Crash         int `json:"crash_points" yaml:"crash_points"`
}

// PolicyOverrides is a partial policy as stored by administrators. A nil field
// means "not set" and falls back to the default.
type PolicyOverrides struct {
	Pole          *int `json:"pole_points,omitempty" yaml:"pole_points,omitempty"`
	Position1     *int `json:"position1_points,omitempty" yaml:"position1_points,omitempty"`
	Position2     *int `json:"position2_points,omitempty" yaml:"position2_points,omitempty"`
	Position3     *int `json:"position3_points,omitempty" yaml:"position3_points,omitempty"`
	Position4To10 *int `json:"position4to10_points,omitempty" yaml:"position4to10_points,omitempty"`
	Crash         *int `json:"crash_points,omitempty" yaml:"crash_points,omitempty"`
}

// Defaults returns the default policy.
func Defaults() Policy {
	return Policy{
		Pole:          DefaultPolePoints,
		Position1:     DefaultPosition1Points,
		Position2:     DefaultPosition2Points,
		Position3:     DefaultPosition3Points,
		Position4To10: DefaultPosition4To10Points,
		Crash:         DefaultCrashPoints,
	}
}

// Merge overlays the fields present in overrides onto the defaults. A nil
// overrides value yields the defaults. Values are not validated; negative
// points are rejected by the policy editor, not here.
func Merge(overrides *PolicyOverrides) Policy {
	p := Defaults()
	if overrides == nil {
		return p
	}
	overlay(&p.Pole, overrides.Pole)
	overlay(&p.Position1, overrides.Position1)
	overlay(&p.Position2, overrides.Position2)
	overlay(&p.Position3, overrides.Position3)
	overlay(&p.Position4To10, overrides.Position4To10)
	overlay(&p.Crash, overrides.Crash)
	return p
}

func overlay(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Overrides returns p as a fully populated PolicyOverrides.
func (p Policy) Overrides() *PolicyOverrides {
	return &PolicyOverrides{
		Pole:          intPtr(p.Pole),
		Position1:     intPtr(p.Position1),
		Position2:     intPtr(p.Position2),
		Position3:     intPtr(p.Position3),
		Position4To10: intPtr(p.Position4To10),
		Crash:         intPtr(p.Crash),
	}
}

func intPtr(v int) *int { return &v }

// PositionPoints returns the points for an exact hit at the zero-based finishing
// index. Indices outside the top ten earn nothing.
func (p Policy) PositionPoints(index int) int {
	switch {
	case index == 0:
		return p.Position1
	case index == 1:
		return p.Position2
	case index == 2:
		return p.Position3
	case index >= 3 && index < 10:
		return p.Position4To10
	default:
		return 0
	}
}

// MaxEventPoints is the most a single forecast can earn for one event.
func (p Policy) MaxEventPoints() int {
	return p.Pole + p.Position1 + p.Position2 + p.Position3 + slots4To10*p.Position4To10 + p.Crash
}
