package postgres

import (
	"context"
	"database/sql"
	"errors"

	"weld-schedule/internal/welding/application"
)

// ConnectivityGraph reads the piping model from the plant_* tables.
type ConnectivityGraph struct {
	db *sql.DB
}

// NewConnectivityGraph constructs a graph reader.
func NewConnectivityGraph(db *sql.DB) *ConnectivityGraph {
	return &ConnectivityGraph{db: db}
}

// FindConnectionPoints returns connectors in insertion order.
func (g *ConnectivityGraph) FindConnectionPoints(ctx context.Context) ([]application.ConnectionPoint, error) {
	if g == nil || g.db == nil {
		return nil, errors.New("connectivity graph: nil db")
	}
	rows, err := g.db.QueryContext(ctx, `
SELECT id, row_id
FROM plant_parts
WHERE kind = $1
ORDER BY seq ASC`, string(application.PartConnector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []application.ConnectionPoint
	for rows.Next() {
		var point application.ConnectionPoint
		if err := rows.Scan(&point.ID, &point.RowID); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// ConnectorPorts returns the ports of a connector.
func (g *ConnectivityGraph) ConnectorPorts(ctx context.Context, pointID string) ([]application.Port, error) {
	return g.PartPorts(ctx, pointID)
}

// IsConnected reports whether anything is attached at the port.
func (g *ConnectivityGraph) IsConnected(ctx context.Context, pointID string, port application.Port) (bool, error) {
	if g == nil || g.db == nil {
		return false, errors.New("connectivity graph: nil db")
	}
	var connected bool
	err := g.db.QueryRowContext(ctx, `
SELECT EXISTS (
	SELECT 1 FROM plant_connections WHERE part_id = $1 AND port_name = $2
)`, pointID, port.Name).Scan(&connected)
	if err != nil {
		return false, err
	}
	return connected, nil
}

// ConnectedParts returns the parts attached at the port in iteration order.
func (g *ConnectivityGraph) ConnectedParts(ctx context.Context, pointID string, port application.Port) ([]application.PartRef, error) {
	if g == nil || g.db == nil {
		return nil, errors.New("connectivity graph: nil db")
	}
	rows, err := g.db.QueryContext(ctx, `
SELECT c.other_part_id, COALESCE(p.kind, ''), COALESCE(p.row_id, '')
FROM plant_connections c
LEFT JOIN plant_parts p ON p.id = c.other_part_id
WHERE c.part_id = $1 AND c.port_name = $2
ORDER BY c.ord ASC`, pointID, port.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []application.PartRef
	for rows.Next() {
		var (
			ref  application.PartRef
			kind string
		)
		if err := rows.Scan(&ref.ID, &kind, &ref.RowID); err != nil {
			return nil, err
		}
		ref.Kind = application.PartKind(kind)
		parts = append(parts, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

// PartPorts returns the named ports of a part.
func (g *ConnectivityGraph) PartPorts(ctx context.Context, partID string) ([]application.Port, error) {
	if g == nil || g.db == nil {
		return nil, errors.New("connectivity graph: nil db")
	}
	rows, err := g.db.QueryContext(ctx, `
SELECT name, x, y, z
FROM plant_ports
WHERE part_id = $1
ORDER BY ord ASC`, partID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ports []application.Port
	for rows.Next() {
		var port application.Port
		if err := rows.Scan(&port.Name, &port.Position.X, &port.Position.Y, &port.Position.Z); err != nil {
			return nil, err
		}
		ports = append(ports, port)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ports, nil
}

// SubParts returns the sub-parts of a part.
func (g *ConnectivityGraph) SubParts(ctx context.Context, partID string) ([]application.SubPart, error) {
	if g == nil || g.db == nil {
		return nil, errors.New("connectivity graph: nil db")
	}
	rows, err := g.db.QueryContext(ctx, `
SELECT kind, row_id
FROM plant_sub_parts
WHERE part_id = $1
ORDER BY ord ASC`, partID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subParts []application.SubPart
	for rows.Next() {
		var (
			sub  application.SubPart
			kind string
		)
		if err := rows.Scan(&kind, &sub.RowID); err != nil {
			return nil, err
		}
		sub.Kind = application.SubPartKind(kind)
		subParts = append(subParts, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subParts, nil
}
