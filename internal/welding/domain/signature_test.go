package welding

import (
	"math"
	"testing"
)

func TestCompareNumeric(t *testing.T) {
	cases := []struct {
		name string
		a, b PortSignature
		want int
	}{
		{"od numeric not text", PortSignature{OD: "114.3"}, PortSignature{OD: "60.3"}, 1},
		{"wall thickness breaks od tie", PortSignature{OD: "60.3", WallThickness: "5.54"}, PortSignature{OD: "60.3", WallThickness: "3.91"}, 1},
		{"material breaks tie", PortSignature{OD: "60.3", WallThickness: "3.91", Material: "CS"}, PortSignature{OD: "60.3", WallThickness: "3.91", Material: "SS"}, -1},
		{"empty sorts lowest", PortSignature{}, PortSignature{OD: "0"}, -1},
		{"unparsable equals empty", PortSignature{OD: "2in"}, PortSignature{}, 0},
		{"spec ignored", PortSignature{OD: "60.3", Spec: "A"}, PortSignature{OD: "60.3", Spec: "B"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompareNumeric(tc.a, tc.b); got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestCompareForNumbering(t *testing.T) {
	cases := []struct {
		name string
		a, b PortSignature
		want int
	}{
		{"numeric order wins", PortSignature{OD: "114.3"}, PortSignature{OD: "60.30"}, 1},
		{"equal value split by text", PortSignature{OD: "60.30"}, PortSignature{OD: "60.3"}, 1},
		{"unparsable split by text", PortSignature{OD: "2in"}, PortSignature{OD: "3in"}, -1},
		{"wall thickness text", PortSignature{OD: "2in", WallThickness: "sch40"}, PortSignature{OD: "2in", WallThickness: "sch80"}, -1},
		{"identical", PortSignature{OD: "2in", WallThickness: "sch40", Material: "CS"}, PortSignature{OD: "2in", WallThickness: "sch40", Material: "CS"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompareForNumbering(tc.a, tc.b); got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestNumericValue(t *testing.T) {
	if got := NumericValue(" 60.3 "); got != 60.3 {
		t.Fatalf("expected 60.3, got %v", got)
	}
	if got := NumericValue(""); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf for empty, got %v", got)
	}
	if got := NumericValue("NaN"); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf for NaN, got %v", got)
	}
}

func TestSamePhysical_IgnoresInformationalFields(t *testing.T) {
	a := PortSignature{OD: "60.3", WallThickness: "3.91", Material: "CS", Spec: "CS150", LongDescription: "PIPE"}
	b := PortSignature{OD: "60.3", WallThickness: "3.91", Material: "CS", Spec: "CS300", LongDescription: "ELBOW"}
	if !a.SamePhysical(b) {
		t.Fatalf("expected same physical signature")
	}
	b.Material = "SS"
	if a.SamePhysical(b) {
		t.Fatalf("expected material difference to matter")
	}
}
