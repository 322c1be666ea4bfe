package application

import (
	"context"
	"errors"
	"fmt"

	welding "weld-schedule/internal/welding/domain"
)

// equipmentPortNameLen is the longest port name of a plain two-ended part.
// Fittings name their ends S1, S2; longer names belong to equipment nozzles.
const equipmentPortNameLen = 2

// PortSignatureResolver resolves the signature of the part attached to a connector port.
type PortSignatureResolver struct {
	graph    ConnectivityGraph
	store    PropertyStore
	reporter Reporter
}

// NewPortSignatureResolver constructs a resolver. A nil reporter discards failures.
func NewPortSignatureResolver(graph ConnectivityGraph, store PropertyStore, reporter Reporter) (*PortSignatureResolver, error) {
	if graph == nil {
		return nil, errors.New("signature resolver: nil connectivity graph")
	}
	if store == nil {
		return nil, errors.New("signature resolver: nil property store")
	}
	if reporter == nil {
		reporter = discardReporter{}
	}
	return &PortSignatureResolver{graph: graph, store: store, reporter: reporter}, nil
}

// Resolve returns the signature for part as seen from the connector port.
// Lookup failures are reported and resolve to empty values.
func (r *PortSignatureResolver) Resolve(ctx context.Context, port Port, part PartRef) welding.PortSignature {
	props := r.properties(ctx, part.RowID, "part "+part.ID)

	portName := r.matchingPortName(ctx, port, part)
	if len(portName) > equipmentPortNameLen {
		if nozzle, ok := r.nozzleProperties(ctx, part, portName); ok {
			props = nozzle
		}
	}
	return welding.SignatureFromProperties(props)
}

func (r *PortSignatureResolver) matchingPortName(ctx context.Context, port Port, part PartRef) string {
	ports, err := r.graph.PartPorts(ctx, part.ID)
	if err != nil {
		r.reporter.Report(ctx, fmt.Errorf("ports of part %s: %w", part.ID, err))
		return ""
	}
	for _, candidate := range ports {
		if candidate.Position.Coincides(port.Position) {
			return candidate.Name
		}
	}
	return ""
}

func (r *PortSignatureResolver) nozzleProperties(ctx context.Context, part PartRef, portName string) (map[string]string, bool) {
	subParts, err := r.graph.SubParts(ctx, part.ID)
	if err != nil {
		r.reporter.Report(ctx, fmt.Errorf("sub-parts of part %s: %w", part.ID, err))
		return nil, false
	}
	for _, sub := range subParts {
		if sub.Kind != SubPartNozzle {
			continue
		}
		props := r.properties(ctx, sub.RowID, "nozzle of part "+part.ID)
		if props[welding.AttrPortName] == portName {
			return props, true
		}
	}
	return nil, false
}

func (r *PortSignatureResolver) properties(ctx context.Context, rowID, what string) map[string]string {
	props, err := r.store.GetProperties(ctx, rowID)
	if err != nil {
		r.reporter.Report(ctx, fmt.Errorf("properties of %s (row %s): %w", what, rowID, err))
		return map[string]string{}
	}
	if props == nil {
		return map[string]string{}
	}
	return props
}
