package welding

// Attribute names read from and written to the property store.
const (
	AttrJointType        = "JointType"
	AttrMaterial         = "Material"
	AttrPartSizeLongDesc = "PartSizeLongDesc"
	AttrSpec             = "Spec"
	AttrWallThickness    = "WallThickness"
	AttrMatchingPipeOD   = "MatchingPipeOd"
	AttrPortName         = "PortName"
	AttrWeldNumber       = "WeldNumber"
)

// SignatureFromProperties maps a part property row onto a signature.
// Missing keys become empty strings.
func SignatureFromProperties(props map[string]string) PortSignature {
	return PortSignature{
		OD:              props[AttrMatchingPipeOD],
		WallThickness:   props[AttrWallThickness],
		Material:        props[AttrMaterial],
		Spec:            props[AttrSpec],
		LongDescription: props[AttrPartSizeLongDesc],
	}
}

// SideProperties returns the flat per-side attributes stored on a weld row:
// Material1, OD1, WallThickness1, LDS1, SPEC1 and the same for side 2.
func (j *WeldJoint) SideProperties() map[string]string {
	props := make(map[string]string, 10)
	for i, sig := range []PortSignature{j.PortA, j.PortB} {
		suffix := string(rune('1' + i))
		props["Material"+suffix] = sig.Material
		props["OD"+suffix] = sig.OD
		props["WallThickness"+suffix] = sig.WallThickness
		props["LDS"+suffix] = sig.LongDescription
		props["SPEC"+suffix] = sig.Spec
	}
	return props
}
