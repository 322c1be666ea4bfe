package application

import (
	"context"
	"errors"
	"fmt"

	welding "weld-schedule/internal/welding/domain"
)

// JointBuilder assembles weld joints from connection points. It never writes.
type JointBuilder struct {
	graph    ConnectivityGraph
	resolver *PortSignatureResolver
}

// NewJointBuilder constructs a builder.
func NewJointBuilder(graph ConnectivityGraph, resolver *PortSignatureResolver) (*JointBuilder, error) {
	if graph == nil {
		return nil, errors.New("joint builder: nil connectivity graph")
	}
	if resolver == nil {
		return nil, errors.New("joint builder: nil signature resolver")
	}
	return &JointBuilder{graph: graph, resolver: resolver}, nil
}

// Build constructs the normalized joint for a weld-classified connection point.
// Graph errors and side index violations abort construction.
func (b *JointBuilder) Build(ctx context.Context, point ConnectionPoint, class welding.ClassTag) (*welding.WeldJoint, error) {
	rowID, err := b.weldRowID(ctx, point)
	if err != nil {
		return nil, err
	}
	joint, err := welding.NewWeldJoint(rowID, class)
	if err != nil {
		return nil, err
	}

	ports, err := b.graph.ConnectorPorts(ctx, point.ID)
	if err != nil {
		return nil, fmt.Errorf("ports of connector %s: %w", point.ID, err)
	}
	for i, port := range ports {
		connected, err := b.graph.IsConnected(ctx, point.ID, port)
		if err != nil {
			return nil, fmt.Errorf("connection state of %s/%s: %w", point.ID, port.Name, err)
		}
		if !connected {
			continue
		}
		part, ok, err := b.connectedPart(ctx, point, port)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		sig := b.resolver.Resolve(ctx, port, part)
		if err := joint.SetPort(i+1, sig); err != nil {
			return nil, fmt.Errorf("connector %s: %w", point.ID, err)
		}
	}
	joint.NormalizePorts()
	return joint, nil
}

// connectedPart returns the first non-connector part reachable from the port.
func (b *JointBuilder) connectedPart(ctx context.Context, point ConnectionPoint, port Port) (PartRef, bool, error) {
	parts, err := b.graph.ConnectedParts(ctx, point.ID, port)
	if err != nil {
		return PartRef{}, false, fmt.Errorf("parts at %s/%s: %w", point.ID, port.Name, err)
	}
	for _, part := range parts {
		if part.ID == "" || part.Kind == PartConnector {
			continue
		}
		return part, true, nil
	}
	return PartRef{}, false, nil
}

// weldRowID returns the row of the connector's weld sub-part, or "" when it has none.
func (b *JointBuilder) weldRowID(ctx context.Context, point ConnectionPoint) (string, error) {
	subParts, err := b.graph.SubParts(ctx, point.ID)
	if err != nil {
		return "", fmt.Errorf("sub-parts of connector %s: %w", point.ID, err)
	}
	for _, sub := range subParts {
		if sub.Kind == SubPartWeld {
			return sub.RowID, nil
		}
	}
	return "", nil
}
