package application_test

import (
	"context"
	"testing"

	"weld-schedule/internal/welding/application"
	"weld-schedule/internal/welding/infrastructure/memory"
)

func newEquipmentModel(t *testing.T, portName string) *memory.Model {
	t.Helper()
	model := memory.NewModel()
	mustAddPart(t, model,
		application.PartRef{ID: "E1", Kind: application.PartEquipment, RowID: "e1"},
		[]application.Port{{Name: portName, Position: at(3)}, {Name: "Other", Position: at(9)}},
		application.SubPart{Kind: application.SubPartNozzle, RowID: "n-other"},
		application.SubPart{Kind: application.SubPartWeld, RowID: "not-a-nozzle"},
		application.SubPart{Kind: application.SubPartNozzle, RowID: "n-match"},
	)
	model.SetRow("e1", map[string]string{"MatchingPipeOd": "1", "WallThickness": "1", "Material": "CI", "Spec": "EQ", "PartSizeLongDesc": "PUMP"})
	model.SetRow("n-other", map[string]string{"PortName": "Other", "MatchingPipeOd": "60.3"})
	model.SetRow("not-a-nozzle", map[string]string{"PortName": portName, "MatchingPipeOd": "999"})
	model.SetRow("n-match", map[string]string{"PortName": portName, "MatchingPipeOd": "114.3", "WallThickness": "6.02", "Material": "CS"})
	return model
}

func TestResolve_ShortPortNameUsesOwnRow(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"", "S", "S1"} {
		model := newEquipmentModel(t, name)
		resolver, err := application.NewPortSignatureResolver(model, model, nil)
		if err != nil {
			t.Fatalf("new resolver: %v", err)
		}
		got := resolver.Resolve(ctx, application.Port{Name: "S2", Position: at(3)}, application.PartRef{ID: "E1", RowID: "e1"})
		if got.OD != "1" || got.Material != "CI" || got.Spec != "EQ" || got.LongDescription != "PUMP" {
			t.Fatalf("port %q: expected own row signature, got %+v", name, got)
		}
	}
}

func TestResolve_LongPortNameUsesMatchingNozzle(t *testing.T) {
	ctx := context.Background()
	model := newEquipmentModel(t, "N1A")
	resolver, err := application.NewPortSignatureResolver(model, model, nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	got := resolver.Resolve(ctx, application.Port{Name: "S2", Position: at(3)}, application.PartRef{ID: "E1", RowID: "e1"})
	if got != sig("114.3", "6.02", "CS") {
		t.Fatalf("expected nozzle signature, got %+v", got)
	}
}

func TestResolve_LongPortNameWithoutNozzleKeepsOwnRow(t *testing.T) {
	ctx := context.Background()
	model := newEquipmentModel(t, "N1A")
	model.SetRow("n-match", map[string]string{"PortName": "N9Z", "MatchingPipeOd": "114.3"})
	resolver, err := application.NewPortSignatureResolver(model, model, nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	got := resolver.Resolve(ctx, application.Port{Position: at(3)}, application.PartRef{ID: "E1", RowID: "e1"})
	if got.OD != "1" || got.Material != "CI" {
		t.Fatalf("expected own row signature, got %+v", got)
	}
}

func TestResolve_NoPortAtPositionUsesOwnRow(t *testing.T) {
	ctx := context.Background()
	model := newEquipmentModel(t, "N1A")
	resolver, err := application.NewPortSignatureResolver(model, model, nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	got := resolver.Resolve(ctx, application.Port{Position: at(42)}, application.PartRef{ID: "E1", RowID: "e1"})
	if got.OD != "1" {
		t.Fatalf("expected own row signature, got %+v", got)
	}
}

func TestResolve_LookupFailureReportsAndYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	model := newEquipmentModel(t, "S1")
	store := newFlakyStore(model)
	store.failRead["e1"] = true
	reporter := &reportRecorder{}
	resolver, err := application.NewPortSignatureResolver(model, store, reporter)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	got := resolver.Resolve(ctx, application.Port{Position: at(3)}, application.PartRef{ID: "E1", RowID: "e1"})
	if !got.IsEmpty() {
		t.Fatalf("expected empty signature, got %+v", got)
	}
	if reporter.Count() != 1 {
		t.Fatalf("expected 1 reported failure, got %d", reporter.Count())
	}
}

func TestResolve_UnknownPartReportsAndYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	model := memory.NewModel()
	reporter := &reportRecorder{}
	resolver, err := application.NewPortSignatureResolver(model, model, reporter)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	got := resolver.Resolve(ctx, application.Port{}, application.PartRef{ID: "ghost", RowID: "ghost"})
	if !got.IsEmpty() {
		t.Fatalf("expected empty signature, got %+v", got)
	}
	if reporter.Count() != 2 {
		t.Fatalf("expected row and port failures reported, got %d", reporter.Count())
	}
}
