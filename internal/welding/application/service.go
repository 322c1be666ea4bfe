package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"weld-schedule/internal/observability/metrics"
	welding "weld-schedule/internal/welding/domain"
)

// Commands run by the service.
const (
	CommandProperties = "properties"
	CommandNumbers    = "numbers"
	CommandSchedule   = "schedule"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// RunReport summarises one pass over the model.
type RunReport struct {
	RunID      string               `json:"run_id"`
	Command    string               `json:"command"`
	Joints     []*welding.WeldJoint `json:"joints"`
	Warnings   []string             `json:"warnings,omitempty"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
}

// CountByClass returns the number of joints per class.
func (r *RunReport) CountByClass() map[welding.ClassTag]int {
	counts := make(map[welding.ClassTag]int, len(welding.Classes))
	for _, joint := range r.Joints {
		counts[joint.Class]++
	}
	return counts
}

// Service runs the weld property and numbering passes. Passes never overlap.
type Service struct {
	mu        sync.Mutex
	graph     ConnectivityGraph
	store     PropertyStore
	builder   *JointBuilder
	assigner  *NumberAssigner
	numbering NumberingConfig
	warnings  *collectingReporter
	clock     Clock
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the clock.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService wires the resolver, builder and assigner over the given adapters.
func NewService(graph ConnectivityGraph, store PropertyStore, reporter Reporter, numbering NumberingConfig, opts ...Option) (*Service, error) {
	if graph == nil {
		return nil, errors.New("weld service: nil connectivity graph")
	}
	if store == nil {
		return nil, errors.New("weld service: nil property store")
	}
	if err := (Config{Numbering: numbering}).Validate(); err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = discardReporter{}
	}
	warnings := &collectingReporter{next: reporter}
	resolver, err := NewPortSignatureResolver(graph, store, warnings)
	if err != nil {
		return nil, err
	}
	builder, err := NewJointBuilder(graph, resolver)
	if err != nil {
		return nil, err
	}
	assigner, err := NewNumberAssigner(store)
	if err != nil {
		return nil, err
	}
	s := &Service{
		graph:     graph,
		store:     store,
		builder:   builder,
		assigner:  assigner,
		numbering: numbering,
		warnings:  warnings,
		clock:     SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CollectJoints builds every weld joint with canonical sides. Nothing is written.
func (s *Service) CollectJoints(ctx context.Context) ([]*welding.WeldJoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings.reset()
	return s.collectJoints(ctx)
}

// ExtractProperties builds every weld joint and stores its per-side attributes.
func (s *Service) ExtractProperties(ctx context.Context) (*RunReport, error) {
	return s.run(ctx, CommandProperties, func(ctx context.Context) ([]*welding.WeldJoint, error) {
		return s.extractProperties(ctx)
	})
}

// AssignNumbers runs the property pass, then numbers each class from its own start.
func (s *Service) AssignNumbers(ctx context.Context) (*RunReport, error) {
	return s.run(ctx, CommandNumbers, func(ctx context.Context) ([]*welding.WeldJoint, error) {
		joints, err := s.extractProperties(ctx)
		if joints == nil {
			return nil, err
		}
		errs := []error{err}
		for _, class := range welding.Classes {
			if err := s.assigner.Assign(ctx, filterClass(joints, class), s.numbering.StartFor(class)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", class, err))
			}
		}
		return joints, errors.Join(errs...)
	})
}

// Schedule builds the joints without writing and reads back their stored numbers.
func (s *Service) Schedule(ctx context.Context) (*RunReport, error) {
	return s.run(ctx, CommandSchedule, func(ctx context.Context) ([]*welding.WeldJoint, error) {
		joints, err := s.collectJoints(ctx)
		if err != nil {
			return nil, err
		}
		for _, joint := range joints {
			if joint.ID == "" {
				continue
			}
			props, err := s.store.GetProperties(ctx, joint.ID)
			if err != nil {
				s.warnings.Report(ctx, fmt.Errorf("weld number of row %s: %w", joint.ID, err))
				continue
			}
			joint.Number = props[welding.AttrWeldNumber]
		}
		return joints, nil
	})
}

func (s *Service) run(ctx context.Context, command string, pass func(context.Context) ([]*welding.WeldJoint, error)) (*RunReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveWeldRun(command, result, time.Since(start))
	}()

	report := &RunReport{RunID: uuid.NewString(), Command: command, StartedAt: s.clock.Now()}
	s.warnings.reset()
	joints, err := pass(ctx)
	report.Warnings = s.warnings.messages()
	report.FinishedAt = s.clock.Now()
	if joints != nil {
		sortForSchedule(joints)
		report.Joints = joints
		for class, count := range report.CountByClass() {
			metrics.AddWeldJoints(command, string(class), count)
		}
	}
	if err != nil {
		result = metrics.ResultError
		if joints == nil {
			return nil, err
		}
	}
	return report, err
}

func (s *Service) extractProperties(ctx context.Context) ([]*welding.WeldJoint, error) {
	joints, err := s.collectJoints(ctx)
	if err != nil {
		return nil, err
	}
	var errs []error
	for _, joint := range joints {
		if joint.ID == "" {
			s.warnings.Report(ctx, fmt.Errorf("weld %s joint: %w", joint.Class, welding.ErrEmptyJointID))
			continue
		}
		if err := s.store.WriteProperties(ctx, joint.ID, joint.SideProperties()); err != nil {
			metrics.IncWeldWriteFailure(CommandProperties)
			errs = append(errs, fmt.Errorf("write weld properties row %s: %w", joint.ID, err))
		}
	}
	return joints, errors.Join(errs...)
}

func (s *Service) collectJoints(ctx context.Context) ([]*welding.WeldJoint, error) {
	points, err := s.graph.FindConnectionPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("find connection points: %w", err)
	}
	if len(points) == 0 {
		return nil, welding.ErrNoConnectors
	}

	joints := make([]*welding.WeldJoint, 0, len(points))
	for _, point := range points {
		class, ok := s.classify(ctx, point)
		if !ok {
			continue
		}
		joint, err := s.builder.Build(ctx, point, class)
		if err != nil {
			return nil, err
		}
		joints = append(joints, joint)
	}
	return joints, nil
}

func (s *Service) classify(ctx context.Context, point ConnectionPoint) (welding.ClassTag, bool) {
	props, err := s.store.GetProperties(ctx, point.RowID)
	if err != nil {
		s.warnings.Report(ctx, fmt.Errorf("properties of connector %s (row %s): %w", point.ID, point.RowID, err))
		return "", false
	}
	class, err := welding.ParseClassTag(props[welding.AttrJointType])
	if err != nil {
		return "", false
	}
	return class, true
}

func filterClass(joints []*welding.WeldJoint, class welding.ClassTag) []*welding.WeldJoint {
	var result []*welding.WeldJoint
	for _, joint := range joints {
		if joint.Class == class {
			result = append(result, joint)
		}
	}
	return result
}

// sortForSchedule orders joints by class, then by assigned number.
func sortForSchedule(joints []*welding.WeldJoint) {
	rank := make(map[welding.ClassTag]int, len(welding.Classes))
	for i, class := range welding.Classes {
		rank[class] = i
	}
	sort.SliceStable(joints, func(i, j int) bool {
		if rank[joints[i].Class] != rank[joints[j].Class] {
			return rank[joints[i].Class] < rank[joints[j].Class]
		}
		return numberValue(joints[i].Number) < numberValue(joints[j].Number)
	})
}

func numberValue(number string) int {
	parsed, err := strconv.Atoi(number)
	if err != nil {
		return 0
	}
	return parsed
}

type collectingReporter struct {
	next      Reporter
	mu        sync.Mutex
	collected []string
}

func (r *collectingReporter) Report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.collected = append(r.collected, err.Error())
	r.mu.Unlock()
	r.next.Report(ctx, err)
}

func (r *collectingReporter) reset() {
	r.mu.Lock()
	r.collected = nil
	r.mu.Unlock()
}

func (r *collectingReporter) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.collected...)
}
