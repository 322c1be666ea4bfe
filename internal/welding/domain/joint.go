package welding

// ClassTag is the weld class of a joint.
type ClassTag string

const (
	ClassButtWeld   ClassTag = "Buttweld"
	ClassTap        ClassTag = "Tap"
	ClassSocketWeld ClassTag = "Socketweld"
)

// Classes lists the weld classes in numbering order.
var Classes = []ClassTag{ClassButtWeld, ClassTap, ClassSocketWeld}

// ParseClassTag classifies a JointType attribute value.
func ParseClassTag(jointType string) (ClassTag, error) {
	switch ClassTag(jointType) {
	case ClassButtWeld, ClassTap, ClassSocketWeld:
		return ClassTag(jointType), nil
	default:
		return "", ErrNotWeld
	}
}

// IsValid reports whether the class is a known weld class.
func (c ClassTag) IsValid() bool {
	_, err := ParseClassTag(string(c))
	return err == nil
}

// WeldJoint is one physical joint with both adjoining signatures.
type WeldJoint struct {
	ID     string        `json:"id"`
	Class  ClassTag      `json:"class"`
	PortA  PortSignature `json:"port_a"`
	PortB  PortSignature `json:"port_b"`
	Number string        `json:"number,omitempty"`
}

// NewWeldJoint constructs a joint with empty sides.
func NewWeldJoint(id string, class ClassTag) (*WeldJoint, error) {
	if !class.IsValid() {
		return nil, ErrNotWeld
	}
	return &WeldJoint{ID: id, Class: class}, nil
}

// SetPort stores a signature by 1-based side index.
func (j *WeldJoint) SetPort(index int, sig PortSignature) error {
	switch index {
	case 1:
		j.PortA = sig
	case 2:
		j.PortB = sig
	default:
		return ErrInvalidPortIndex
	}
	return nil
}

// NormalizePorts puts the larger side first. Calling it again is a no-op.
func (j *WeldJoint) NormalizePorts() {
	if CompareText(j.PortA, j.PortB) < 0 {
		j.PortA, j.PortB = j.PortB, j.PortA
	}
}

// SamePhysical reports whether both sides match pairwise.
func (j *WeldJoint) SamePhysical(other *WeldJoint) bool {
	return j.PortA.SamePhysical(other.PortA) && j.PortB.SamePhysical(other.PortB)
}
