package application

import (
	"context"
	"math"
)

// PartKind classifies a part in the piping model.
type PartKind string

const (
	PartConnector PartKind = "connector"
	PartPipe      PartKind = "pipe"
	PartFitting   PartKind = "fitting"
	PartEquipment PartKind = "equipment"
)

// SubPartKind classifies a sub-part of a part.
type SubPartKind string

const (
	SubPartWeld   SubPartKind = "weld"
	SubPartNozzle SubPartKind = "nozzle"
)

// positionTolerance is the per-axis distance under which two port positions coincide.
const positionTolerance = 1e-9

// Position is a point in model space.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Coincides reports whether two positions are the same point.
func (p Position) Coincides(other Position) bool {
	return math.Abs(p.X-other.X) <= positionTolerance &&
		math.Abs(p.Y-other.Y) <= positionTolerance &&
		math.Abs(p.Z-other.Z) <= positionTolerance
}

// Port is a named end of a part.
type Port struct {
	Name     string
	Position Position
}

// ConnectionPoint is a connector object that may represent a weld.
type ConnectionPoint struct {
	ID    string
	RowID string
}

// PartRef identifies a part touching a port.
type PartRef struct {
	ID    string
	Kind  PartKind
	RowID string
}

// SubPart is a sub-part of a part, with its own property row.
type SubPart struct {
	Kind  SubPartKind
	RowID string
}

// ConnectivityGraph reports which parts touch which ports.
type ConnectivityGraph interface {
	FindConnectionPoints(ctx context.Context) ([]ConnectionPoint, error)
	ConnectorPorts(ctx context.Context, pointID string) ([]Port, error)
	IsConnected(ctx context.Context, pointID string, port Port) (bool, error)
	ConnectedParts(ctx context.Context, pointID string, port Port) ([]PartRef, error)
	PartPorts(ctx context.Context, partID string) ([]Port, error)
	SubParts(ctx context.Context, partID string) ([]SubPart, error)
}

// PropertyStore reads and writes flat attribute rows.
// WriteProperties must apply all values of a row or none of them.
type PropertyStore interface {
	GetProperties(ctx context.Context, rowID string) (map[string]string, error)
	WriteProperties(ctx context.Context, rowID string, values map[string]string) error
}

// Reporter receives lookup failures that were resolved to defaults.
type Reporter interface {
	Report(ctx context.Context, err error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, err error)

func (f ReporterFunc) Report(ctx context.Context, err error) { f(ctx, err) }

type discardReporter struct{}

func (discardReporter) Report(context.Context, error) {}
