package welding

import (
	"errors"
	"testing"
)

func TestNormalizePorts_LargerFirstAndIdempotent(t *testing.T) {
	small := PortSignature{OD: "114.3", WallThickness: "6.02", Material: "CS"}
	large := PortSignature{OD: "60.3", WallThickness: "3.91", Material: "CS"}

	joint := &WeldJoint{ID: "row-1", Class: ClassButtWeld, PortA: small, PortB: large}
	joint.NormalizePorts()
	// "60.3" > "114.3" as text.
	if joint.PortA != large || joint.PortB != small {
		t.Fatalf("expected text-larger side first, got A=%+v B=%+v", joint.PortA, joint.PortB)
	}

	once := *joint
	joint.NormalizePorts()
	if *joint != once {
		t.Fatalf("normalize not idempotent: %+v vs %+v", *joint, once)
	}
}

func TestNormalizePorts_TotalOverPairs(t *testing.T) {
	sigs := []PortSignature{
		{},
		{OD: "60.3"},
		{OD: "60.3", WallThickness: "3.91"},
		{OD: "60.3", WallThickness: "3.91", Material: "CS"},
		{OD: "60.3", WallThickness: "3.91", Material: "SS"},
		{OD: "88.9", WallThickness: "5.49", Material: "CS"},
	}
	for _, a := range sigs {
		for _, b := range sigs {
			ab := &WeldJoint{PortA: a, PortB: b}
			ba := &WeldJoint{PortA: b, PortB: a}
			ab.NormalizePorts()
			ba.NormalizePorts()
			if !ab.PortA.SamePhysical(ba.PortA) || !ab.PortB.SamePhysical(ba.PortB) {
				t.Fatalf("order depends on input: %+v / %+v", ab, ba)
			}
			if CompareText(ab.PortA, ab.PortB) < 0 {
				t.Fatalf("port A smaller than port B: %+v", ab)
			}
		}
	}
}

func TestSetPort_IndexOutOfRange(t *testing.T) {
	joint, err := NewWeldJoint("row-1", ClassTap)
	if err != nil {
		t.Fatalf("new joint: %v", err)
	}
	sig := PortSignature{OD: "60.3"}
	if err := joint.SetPort(1, sig); err != nil {
		t.Fatalf("set port 1: %v", err)
	}
	if err := joint.SetPort(2, sig); err != nil {
		t.Fatalf("set port 2: %v", err)
	}
	for _, index := range []int{0, 3, -1} {
		if err := joint.SetPort(index, sig); !errors.Is(err, ErrInvalidPortIndex) {
			t.Fatalf("index %d: expected ErrInvalidPortIndex, got %v", index, err)
		}
	}
}

func TestParseClassTag(t *testing.T) {
	cases := map[string]bool{
		"Buttweld":   true,
		"Tap":        true,
		"Socketweld": true,
		"buttweld":   false,
		"Flanged":    false,
		"":           false,
	}
	for value, ok := range cases {
		class, err := ParseClassTag(value)
		if ok && (err != nil || string(class) != value) {
			t.Fatalf("%q: expected weld class, got %q %v", value, class, err)
		}
		if !ok && !errors.Is(err, ErrNotWeld) {
			t.Fatalf("%q: expected ErrNotWeld, got %v", value, err)
		}
	}
}

func TestSideProperties(t *testing.T) {
	joint := &WeldJoint{
		PortA: PortSignature{OD: "88.9", WallThickness: "5.49", Material: "CS", Spec: "CS300", LongDescription: "PIPE 3\""},
		PortB: PortSignature{OD: "60.3", Material: "SS"},
	}
	props := joint.SideProperties()
	want := map[string]string{
		"Material1": "CS", "OD1": "88.9", "WallThickness1": "5.49", "LDS1": "PIPE 3\"", "SPEC1": "CS300",
		"Material2": "SS", "OD2": "60.3", "WallThickness2": "", "LDS2": "", "SPEC2": "",
	}
	if len(props) != len(want) {
		t.Fatalf("expected %d attributes, got %d", len(want), len(props))
	}
	for key, value := range want {
		if props[key] != value {
			t.Fatalf("%s: got %q want %q", key, props[key], value)
		}
	}
}
