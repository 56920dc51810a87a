package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/store"
	"github.com/dekarrin/civrules/internal/util"
	"github.com/google/uuid"
)

func NewReportsRepository() *ReportsRepository {
	return &ReportsRepository{
		reports:    make(map[uuid.UUID]report.Report),
		byDirIndex: make(map[string][]uuid.UUID),
	}
}

// ReportsRepository is a store.ReportRepository kept in memory. It is safe
// for use from multiple goroutines.
type ReportsRepository struct {
	mtx        sync.RWMutex
	reports    map[uuid.UUID]report.Report
	byDirIndex map[string][]uuid.UUID
}

func (imr *ReportsRepository) Close() error {
	return nil
}

func (imr *ReportsRepository) Create(ctx context.Context, r report.Report) (report.Report, error) {
	imr.mtx.Lock()
	defer imr.mtx.Unlock()

	if r.ID == uuid.Nil {
		newUUID, err := uuid.NewRandom()
		if err != nil {
			return report.Report{}, fmt.Errorf("could not generate ID: %w", err)
		}
		r.ID = newUUID
	}

	if _, ok := imr.reports[r.ID]; ok {
		return report.Report{}, store.ErrConstraintViolation
	}

	r = copyReport(r)
	imr.reports[r.ID] = r
	imr.byDirIndex[r.Dir] = append(imr.byDirIndex[r.Dir], r.ID)

	return copyReport(r), nil
}

func (imr *ReportsRepository) GetByID(ctx context.Context, id uuid.UUID) (report.Report, error) {
	imr.mtx.RLock()
	defer imr.mtx.RUnlock()

	r, ok := imr.reports[id]
	if !ok {
		return report.Report{}, store.ErrNotFound
	}
	return copyReport(r), nil
}

func (imr *ReportsRepository) GetAll(ctx context.Context) ([]report.Report, error) {
	imr.mtx.RLock()
	defer imr.mtx.RUnlock()

	all := make([]report.Report, 0, len(imr.reports))
	for k := range imr.reports {
		all = append(all, copyReport(imr.reports[k]))
	}
	return newestFirst(all), nil
}

func (imr *ReportsRepository) GetAllByDir(ctx context.Context, dir string) ([]report.Report, error) {
	imr.mtx.RLock()
	defer imr.mtx.RUnlock()

	byDir := imr.byDirIndex[dir]
	all := make([]report.Report, len(byDir))
	for i := range byDir {
		all[i] = copyReport(imr.reports[byDir[i]])
	}
	return newestFirst(all), nil
}

func (imr *ReportsRepository) Latest(ctx context.Context, dir string) (report.Report, error) {
	all, err := imr.GetAllByDir(ctx, dir)
	if err != nil {
		return report.Report{}, err
	}
	if len(all) < 1 {
		return report.Report{}, store.ErrNotFound
	}
	return all[0], nil
}

func (imr *ReportsRepository) Delete(ctx context.Context, id uuid.UUID) (report.Report, error) {
	imr.mtx.Lock()
	defer imr.mtx.Unlock()

	r, ok := imr.reports[id]
	if !ok {
		return report.Report{}, store.ErrNotFound
	}

	byDir := imr.byDirIndex[r.Dir]
	updated := make([]uuid.UUID, 0, len(byDir))
	for _, other := range byDir {
		if other != id {
			updated = append(updated, other)
		}
	}
	if len(updated) < 1 {
		delete(imr.byDirIndex, r.Dir)
	} else {
		imr.byDirIndex[r.Dir] = updated
	}
	delete(imr.reports, id)

	return r, nil
}

func newestFirst(all []report.Report) []report.Report {
	return util.SortBy(all, func(l, r report.Report) bool {
		if l.Created.Equal(r.Created) {
			return l.ID.String() < r.ID.String()
		}
		return l.Created.After(r.Created)
	})
}

// copyReport returns a copy of r that shares no memory with it, so callers
// cannot change what is stored.
func copyReport(r report.Report) report.Report {
	cp := r
	cp.Counts = make(map[string]int, len(r.Counts))
	for k, v := range r.Counts {
		cp.Counts[k] = v
	}
	if r.Warnings != nil {
		cp.Warnings = make([]report.Warning, len(r.Warnings))
		copy(cp.Warnings, r.Warnings)
	}
	return cp
}
