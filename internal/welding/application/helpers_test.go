package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"weld-schedule/internal/welding/application"
	welding "weld-schedule/internal/welding/domain"
	"weld-schedule/internal/welding/infrastructure/memory"
)

var errStoreDown = errors.New("store down")

// flakyStore fails reads or writes for selected rows and records writes.
type flakyStore struct {
	application.PropertyStore
	mu         sync.Mutex
	failRead   map[string]bool
	failWrite  map[string]bool
	writes     []string
	readCounts map[string]int
}

func newFlakyStore(next application.PropertyStore) *flakyStore {
	return &flakyStore{
		PropertyStore: next,
		failRead:      map[string]bool{},
		failWrite:     map[string]bool{},
		readCounts:    map[string]int{},
	}
}

func (s *flakyStore) GetProperties(ctx context.Context, rowID string) (map[string]string, error) {
	s.mu.Lock()
	s.readCounts[rowID]++
	fail := s.failRead[rowID]
	s.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return s.PropertyStore.GetProperties(ctx, rowID)
}

func (s *flakyStore) WriteProperties(ctx context.Context, rowID string, values map[string]string) error {
	s.mu.Lock()
	s.writes = append(s.writes, rowID)
	fail := s.failWrite[rowID]
	s.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return s.PropertyStore.WriteProperties(ctx, rowID, values)
}

type reportRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *reportRecorder) Report(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *reportRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func loadPlant(t *testing.T) *memory.Model {
	t.Helper()
	model, err := memory.LoadModelFile("../infrastructure/memory/testdata/plant.yaml")
	if err != nil {
		t.Fatalf("load plant: %v", err)
	}
	return model
}

func sig(od, wt, material string) welding.PortSignature {
	return welding.PortSignature{OD: od, WallThickness: wt, Material: material}
}

func mustAddPart(t *testing.T, model *memory.Model, ref application.PartRef, ports []application.Port, subParts ...application.SubPart) {
	t.Helper()
	if err := model.AddPart(ref, ports, subParts); err != nil {
		t.Fatalf("add part %s: %v", ref.ID, err)
	}
}

func mustConnect(t *testing.T, model *memory.Model, partID, portName string, others ...string) {
	t.Helper()
	if err := model.Connect(partID, portName, others...); err != nil {
		t.Fatalf("connect %s/%s: %v", partID, portName, err)
	}
}

func at(x float64) application.Position {
	return application.Position{X: x}
}
