package welding

import (
	"math"
	"strconv"
	"strings"
)

// PortSignature is the physical signature of the part on one side of a joint.
// Spec and LongDescription are informational and take no part in comparisons.
type PortSignature struct {
	OD              string `json:"od"`
	WallThickness   string `json:"wall_thickness"`
	Material        string `json:"material"`
	Spec            string `json:"spec"`
	LongDescription string `json:"long_description"`
}

// IsEmpty reports whether no field is set.
func (s PortSignature) IsEmpty() bool {
	return s == PortSignature{}
}

// SamePhysical reports whether two signatures share OD, wall thickness and material.
func (s PortSignature) SamePhysical(other PortSignature) bool {
	return s.OD == other.OD &&
		s.WallThickness == other.WallThickness &&
		s.Material == other.Material
}

// CompareText orders two signatures by plain string comparison of
// (OD, WallThickness, Material). Used only to pick which side comes first.
func CompareText(a, b PortSignature) int {
	if c := strings.Compare(a.OD, b.OD); c != 0 {
		return c
	}
	if c := strings.Compare(a.WallThickness, b.WallThickness); c != 0 {
		return c
	}
	return strings.Compare(a.Material, b.Material)
}

// CompareNumeric orders two signatures by numeric OD, numeric wall thickness,
// then material text. Empty or unparsable numbers sort lowest.
func CompareNumeric(a, b PortSignature) int {
	if c := compareFloat(NumericValue(a.OD), NumericValue(b.OD)); c != 0 {
		return c
	}
	if c := compareFloat(NumericValue(a.WallThickness), NumericValue(b.WallThickness)); c != 0 {
		return c
	}
	return strings.Compare(a.Material, b.Material)
}

// CompareForNumbering is CompareNumeric with ties broken on the raw OD and
// wall thickness text, so values such as "60.3"/"60.30" or two unparsable
// sizes never interleave with each other.
func CompareForNumbering(a, b PortSignature) int {
	if c := CompareNumeric(a, b); c != 0 {
		return c
	}
	if c := strings.Compare(a.OD, b.OD); c != 0 {
		return c
	}
	return strings.Compare(a.WallThickness, b.WallThickness)
}

// NumericValue parses a numeric-valued attribute. Empty or unparsable
// values yield negative infinity.
func NumericValue(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return math.Inf(-1)
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) {
		return math.Inf(-1)
	}
	return parsed
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
