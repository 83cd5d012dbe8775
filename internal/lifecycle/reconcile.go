package lifecycle

import (
	"context"

	"mytodo/internal/models"
	"mytodo/internal/store"
)

// Report lists the inconsistencies found in the stored sets.
//
// A process that dies between the two writes of a move can leave a task in
// both sets. Such a task is kept in the active set, where the user will see
// it, and dropped from the deleted set. Repeated ids within one set keep
// their first occurrence.
type Report struct {
	DuplicateActive  []string
	DuplicateDeleted []string
	InBothSets       []string
}

// Repaired reports whether any inconsistency was found.
func (r Report) Repaired() bool {
	return len(r.DuplicateActive) > 0 || len(r.DuplicateDeleted) > 0 || len(r.InBothSets) > 0
}

func (r Report) fields() []interface{} {
	return []interface{}{
		"duplicate_active", r.DuplicateActive,
		"duplicate_deleted", r.DuplicateDeleted,
		"in_both_sets", r.InBothSets,
	}
}

// Reconcile checks both sets and writes back a repaired copy when needed.
// It is safe to run at any time; a clean store is left untouched.
func (s *Service) Reconcile(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, deleted, report, err := s.read(ctx)
	if err != nil {
		return Report{}, err
	}
	if !report.Repaired() {
		return report, nil
	}

	if err := s.persistRepair(ctx, active, deleted, report); err != nil {
		return report, err
	}
	s.logger.Info("repaired task records", report.fields()...)
	return report, nil
}

func (s *Service) persistRepair(ctx context.Context, active, deleted []models.Task, report Report) error {
	sets := make(map[store.Set][]models.Task, 2)
	if len(report.DuplicateActive) > 0 {
		sets[store.ActiveSet] = active
	}
	if len(report.DuplicateDeleted) > 0 || len(report.InBothSets) > 0 {
		sets[store.DeletedSet] = deleted
	}
	return s.records.WriteSets(ctx, sets)
}

func reconcile(active, deleted []models.Task) ([]models.Task, []models.Task, Report) {
	var report Report

	inActive := make(map[string]bool, len(active))
	keptActive := make([]models.Task, 0, len(active))
	for _, t := range active {
		if inActive[t.ID] {
			report.DuplicateActive = append(report.DuplicateActive, t.ID)
			continue
		}
		inActive[t.ID] = true
		keptActive = append(keptActive, t)
	}

	inDeleted := make(map[string]bool, len(deleted))
	keptDeleted := make([]models.Task, 0, len(deleted))
	for _, t := range deleted {
		switch {
		case inActive[t.ID]:
			report.InBothSets = append(report.InBothSets, t.ID)
		case inDeleted[t.ID]:
			report.DuplicateDeleted = append(report.DuplicateDeleted, t.ID)
		default:
			inDeleted[t.ID] = true
			keptDeleted = append(keptDeleted, t)
		}
	}

	return keptActive, keptDeleted, report
}
