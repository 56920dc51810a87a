// Package inmem is a Store that keeps everything in memory. Nothing survives
// the process.
package inmem

import (
	"github.com/dekarrin/civrules/internal/store"
)

type datastore struct {
	reports *ReportsRepository
}

func NewDatastore() store.Store {
	return &datastore{
		reports: NewReportsRepository(),
	}
}

func (s *datastore) Reports() store.ReportRepository {
	return s.reports
}

func (s *datastore) Close() error {
	return s.reports.Close()
}
