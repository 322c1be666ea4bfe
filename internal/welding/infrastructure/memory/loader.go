package memory

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"weld-schedule/internal/welding/application"
)

// snapshot is the YAML layout of a piping model export.
type snapshot struct {
	Parts []partSpec                   `yaml:"parts"`
	Rows  map[string]map[string]string `yaml:"rows"`
}

type partSpec struct {
	ID        string              `yaml:"id"`
	Kind      string              `yaml:"kind"`
	Row       string              `yaml:"row"`
	Ports     []portSpec          `yaml:"ports"`
	SubParts  []subPartSpec       `yaml:"sub_parts"`
	Connected map[string][]string `yaml:"connected"`
}

type portSpec struct {
	Name string    `yaml:"name"`
	At   []float64 `yaml:"at"`
}

type subPartSpec struct {
	Kind string `yaml:"kind"`
	Row  string `yaml:"row"`
}

// LoadModelFile reads a YAML model snapshot from disk.
func LoadModelFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	model, err := LoadModel(f)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return model, nil
}

// LoadModel decodes a YAML model snapshot.
func LoadModel(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var snap snapshot
	if err := dec.Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return NewModel(), nil
		}
		return nil, err
	}

	model := NewModel()
	for _, spec := range snap.Parts {
		ports := make([]application.Port, 0, len(spec.Ports))
		for _, port := range spec.Ports {
			pos, err := toPosition(port.At)
			if err != nil {
				return nil, fmt.Errorf("part %s port %s: %w", spec.ID, port.Name, err)
			}
			ports = append(ports, application.Port{Name: port.Name, Position: pos})
		}
		subParts := make([]application.SubPart, 0, len(spec.SubParts))
		for _, sub := range spec.SubParts {
			subParts = append(subParts, application.SubPart{Kind: application.SubPartKind(sub.Kind), RowID: sub.Row})
		}
		ref := application.PartRef{ID: spec.ID, Kind: application.PartKind(spec.Kind), RowID: spec.Row}
		if err := model.AddPart(ref, ports, subParts); err != nil {
			return nil, err
		}
	}
	// connections may reference parts declared later
	for _, spec := range snap.Parts {
		for portName, others := range spec.Connected {
			if err := model.Connect(spec.ID, portName, others...); err != nil {
				return nil, err
			}
		}
	}
	for rowID, props := range snap.Rows {
		model.SetRow(rowID, props)
	}
	return model, nil
}

func toPosition(at []float64) (application.Position, error) {
	switch len(at) {
	case 0:
		return application.Position{}, nil
	case 3:
		return application.Position{X: at[0], Y: at[1], Z: at[2]}, nil
	default:
		return application.Position{}, fmt.Errorf("position needs 3 coordinates, got %d", len(at))
	}
}

// SaveModelFile writes the model back to disk, replacing the file.
func SaveModelFile(path string, model *Model) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := SaveModel(f, model); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("model %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// SaveModel encodes the model in the snapshot layout read by LoadModel.
func SaveModel(w io.Writer, model *Model) error {
	if model == nil {
		return errors.New("save model: nil model")
	}
	snap := snapshot{Rows: make(map[string]map[string]string)}
	for _, record := range model.Parts() {
		spec := partSpec{
			ID:   record.Ref.ID,
			Kind: string(record.Ref.Kind),
			Row:  record.Ref.RowID,
		}
		for _, port := range record.Ports {
			spec.Ports = append(spec.Ports, portSpec{
				Name: port.Name,
				At:   []float64{port.Position.X, port.Position.Y, port.Position.Z},
			})
		}
		for _, sub := range record.SubParts {
			spec.SubParts = append(spec.SubParts, subPartSpec{Kind: string(sub.Kind), Row: sub.RowID})
		}
		if len(record.Connections) > 0 {
			spec.Connected = record.Connections
		}
		snap.Parts = append(snap.Parts, spec)
	}
	for _, rowID := range model.RowIDs() {
		snap.Rows[rowID] = model.Row(rowID)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&snap); err != nil {
		return err
	}
	return enc.Close()
}
