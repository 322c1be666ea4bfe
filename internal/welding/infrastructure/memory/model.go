package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"weld-schedule/internal/welding/application"
)

var (
	// ErrPartNotFound is returned for an unknown part id.
	ErrPartNotFound = errors.New("memory model: part not found")
	// ErrRowNotFound is returned for an unknown property row.
	ErrRowNotFound = errors.New("memory model: row not found")
)

type part struct {
	ref         application.PartRef
	ports       []application.Port
	subParts    []application.SubPart
	connections map[string][]string
}

// Model is an in-memory piping model for the CLI and tests.
// It implements both ConnectivityGraph and PropertyStore.
type Model struct {
	mu    sync.RWMutex
	parts map[string]*part
	order []string
	rows  map[string]map[string]string
}

// NewModel constructs an empty model.
func NewModel() *Model {
	return &Model{
		parts: make(map[string]*part),
		rows:  make(map[string]map[string]string),
	}
}

// AddPart registers a part with its ports and sub-parts.
func (m *Model) AddPart(ref application.PartRef, ports []application.Port, subParts []application.SubPart) error {
	if ref.ID == "" {
		return errors.New("memory model: empty part id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.parts[ref.ID]; exists {
		return fmt.Errorf("memory model: duplicate part %s", ref.ID)
	}
	m.parts[ref.ID] = &part{
		ref:         ref,
		ports:       append([]application.Port(nil), ports...),
		subParts:    append([]application.SubPart(nil), subParts...),
		connections: make(map[string][]string),
	}
	m.order = append(m.order, ref.ID)
	return nil
}

// Connect records the parts reachable from a port, in iteration order.
func (m *Model) Connect(partID, portName string, others ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parts[partID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPartNotFound, partID)
	}
	p.connections[portName] = append(p.connections[portName], others...)
	return nil
}

// SetRow replaces a property row.
func (m *Model) SetRow(rowID string, props map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := make(map[string]string, len(props))
	for key, value := range props {
		row[key] = value
	}
	m.rows[rowID] = row
}

// Row returns a copy of a property row, or nil.
func (m *Model) Row(rowID string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[rowID]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(row))
	for key, value := range row {
		out[key] = value
	}
	return out
}

// FindConnectionPoints returns connectors in insertion order.
func (m *Model) FindConnectionPoints(ctx context.Context) ([]application.ConnectionPoint, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	var points []application.ConnectionPoint
	for _, id := range m.order {
		p := m.parts[id]
		if p.ref.Kind != application.PartConnector {
			continue
		}
		points = append(points, application.ConnectionPoint{ID: p.ref.ID, RowID: p.ref.RowID})
	}
	return points, nil
}

// ConnectorPorts returns the ports of a connector.
func (m *Model) ConnectorPorts(ctx context.Context, pointID string) ([]application.Port, error) {
	return m.PartPorts(ctx, pointID)
}

// IsConnected reports whether anything is attached at the port.
func (m *Model) IsConnected(ctx context.Context, pointID string, port application.Port) (bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.parts[pointID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrPartNotFound, pointID)
	}
	return len(p.connections[port.Name]) > 0, nil
}

// ConnectedParts returns the parts attached at the port. Unknown ids come back with only the id set.
func (m *Model) ConnectedParts(ctx context.Context, pointID string, port application.Port) ([]application.PartRef, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.parts[pointID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, pointID)
	}
	ids := p.connections[port.Name]
	refs := make([]application.PartRef, 0, len(ids))
	for _, id := range ids {
		if other, ok := m.parts[id]; ok {
			refs = append(refs, other.ref)
			continue
		}
		refs = append(refs, application.PartRef{ID: id})
	}
	return refs, nil
}

// PartPorts returns the named ports of a part.
func (m *Model) PartPorts(ctx context.Context, partID string) ([]application.Port, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.parts[partID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, partID)
	}
	return append([]application.Port(nil), p.ports...), nil
}

// SubParts returns the sub-parts of a part.
func (m *Model) SubParts(ctx context.Context, partID string) ([]application.SubPart, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.parts[partID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, partID)
	}
	return append([]application.SubPart(nil), p.subParts...), nil
}

// GetProperties returns the non-empty attributes of a row.
func (m *Model) GetProperties(ctx context.Context, rowID string) (map[string]string, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[rowID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}
	out := make(map[string]string, len(row))
	for key, value := range row {
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out, nil
}

// WriteProperties merges values into an existing row under one lock.
func (m *Model) WriteProperties(ctx context.Context, rowID string, values map[string]string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[rowID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}
	for key, value := range values {
		row[key] = value
	}
	return nil
}

// PartRecord is a full part entry, used to copy a model into another store.
type PartRecord struct {
	Ref         application.PartRef
	Ports       []application.Port
	SubParts    []application.SubPart
	Connections map[string][]string
}

// Parts returns every part in insertion order.
func (m *Model) Parts() []PartRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]PartRecord, 0, len(m.order))
	for _, id := range m.order {
		p := m.parts[id]
		connections := make(map[string][]string, len(p.connections))
		for port, others := range p.connections {
			connections[port] = append([]string(nil), others...)
		}
		records = append(records, PartRecord{
			Ref:         p.ref,
			Ports:       append([]application.Port(nil), p.ports...),
			SubParts:    append([]application.SubPart(nil), p.subParts...),
			Connections: connections,
		})
	}
	return records
}

// RowIDs returns every property row id.
func (m *Model) RowIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
