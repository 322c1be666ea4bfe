package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"weld-schedule/internal/observability/metrics"
	welding "weld-schedule/internal/welding/domain"
)

// NumberAssigner numbers the joints of a single class and persists the numbers.
type NumberAssigner struct {
	store PropertyStore
}

// NewNumberAssigner constructs an assigner.
func NewNumberAssigner(store PropertyStore) (*NumberAssigner, error) {
	if store == nil {
		return nil, errors.New("number assigner: nil property store")
	}
	return &NumberAssigner{store: store}, nil
}

// Assign sorts joints largest first, gives runs of physically identical joints
// the same number starting at start, and writes each number to its row.
// Row failures do not stop the remaining writes; they are returned joined.
func (a *NumberAssigner) Assign(ctx context.Context, joints []*welding.WeldJoint, start int) error {
	if len(joints) == 0 {
		return nil
	}
	SortJoints(joints)

	number := start
	representative := joints[0]
	for _, joint := range joints {
		if !joint.SamePhysical(representative) {
			representative = joint
			number++
		}
		joint.Number = strconv.Itoa(number)
	}

	var errs []error
	for _, joint := range joints {
		if err := a.write(ctx, joint); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *NumberAssigner) write(ctx context.Context, joint *welding.WeldJoint) error {
	if joint.ID == "" {
		return fmt.Errorf("weld number %s: %w", joint.Number, welding.ErrEmptyJointID)
	}
	err := a.store.WriteProperties(ctx, joint.ID, map[string]string{welding.AttrWeldNumber: joint.Number})
	if err != nil {
		metrics.IncWeldWriteFailure(CommandNumbers)
		return fmt.Errorf("write weld number row %s: %w", joint.ID, err)
	}
	return nil
}

// SortJoints orders joints descending by side A then side B, comparing
// OD and wall thickness numerically and material as text, then the raw size
// text. Ties keep input order.
func SortJoints(joints []*welding.WeldJoint) {
	sort.SliceStable(joints, func(i, j int) bool {
		if c := welding.CompareForNumbering(joints[i].PortA, joints[j].PortA); c != 0 {
			return c > 0
		}
		return welding.CompareForNumbering(joints[i].PortB, joints[j].PortB) > 0
	})
}
