// Package sqlite is a Store kept in a SQLite database file.
package sqlite

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/civrules/internal/store"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// DBFilename is the name of the database file within the storage directory.
const DBFilename = "reports.db"

type datastore struct {
	dbFilename string
	db         *sql.DB
	reports    *ReportsDB
}

// NewDatastore opens the store kept in storageDir, creating the directory and
// the database if they do not yet exist.
func NewDatastore(storageDir string) (store.Store, error) {
	st := &datastore{
		dbFilename: DBFilename,
	}

	if err := os.MkdirAll(storageDir, 0770); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.reports = &ReportsDB{db: st.db}
	if err := st.reports.init(); err != nil {
		st.db.Close()
		return nil, err
	}

	return st, nil
}

func (s *datastore) Reports() store.ReportRepository {
	return s.reports
}

func (s *datastore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		// the low byte is the primary result code; 19 is SQLITE_CONSTRAINT
		if sqliteErr.Code()&0xff == 19 {
			return store.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertToDB_ByteSlice(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = u
	return nil
}

func convertFromDB_ByteSlice(s string, target *[]byte) error {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	*target = b
	return nil
}
