package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/store"
	"github.com/google/uuid"
)

// NewReportsDBConn opens a ReportsDB on its own connection to file.
func NewReportsDBConn(file string) (*ReportsDB, error) {
	repo := &ReportsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init()
}

// ReportsDB is a store.ReportRepository kept in a SQLite table. The full
// report is kept as its binary encoding; the columns beside it exist only to
// select and order by.
type ReportsDB struct {
	db *sql.DB
}

func (repo *ReportsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS reports (
		id TEXT NOT NULL PRIMARY KEY,
		dir TEXT NOT NULL,
		ruleset TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		created INTEGER NOT NULL,
		data TEXT NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	_, err = repo.db.Exec(`CREATE INDEX IF NOT EXISTS reports_by_dir ON reports (dir, created);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *ReportsDB) Create(ctx context.Context, r report.Report) (report.Report, error) {
	if r.ID == uuid.Nil {
		newUUID, err := uuid.NewRandom()
		if err != nil {
			return report.Report{}, fmt.Errorf("could not generate ID: %w", err)
		}
		r.ID = newUUID
	}

	data, err := r.MarshalBinary()
	if err != nil {
		return report.Report{}, fmt.Errorf("encode report: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO reports (id, dir, ruleset, fingerprint, created, data) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return report.Report{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		convertToDB_UUID(r.ID),
		r.Dir,
		r.Ruleset,
		r.Fingerprint,
		r.Created.UnixNano(),
		convertToDB_ByteSlice(data),
	)
	if err != nil {
		return report.Report{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, r.ID)
}

func (repo *ReportsDB) GetByID(ctx context.Context, id uuid.UUID) (report.Report, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, data FROM reports WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanReport(row)
}

func (repo *ReportsDB) GetAll(ctx context.Context) ([]report.Report, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, data FROM reports ORDER BY created DESC, id ASC;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	return scanReports(rows)
}

func (repo *ReportsDB) GetAllByDir(ctx context.Context, dir string) ([]report.Report, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, data FROM reports WHERE dir = ? ORDER BY created DESC, id ASC;`,
		dir,
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	return scanReports(rows)
}

func (repo *ReportsDB) Latest(ctx context.Context, dir string) (report.Report, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, data FROM reports WHERE dir = ? ORDER BY created DESC, id ASC LIMIT 1;`,
		dir,
	)
	return scanReport(row)
}

func (repo *ReportsDB) Delete(ctx context.Context, id uuid.UUID) (report.Report, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, store.ErrNotFound
	}

	return curVal, nil
}

func (repo *ReportsDB) Close() error {
	return repo.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (report.Report, error) {
	var id string
	var data string

	if err := row.Scan(&id, &data); err != nil {
		return report.Report{}, wrapDBError(err)
	}

	var stored uuid.UUID
	if err := convertFromDB_UUID(id, &stored); err != nil {
		return report.Report{}, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}

	var raw []byte
	if err := convertFromDB_ByteSlice(data, &raw); err != nil {
		return report.Report{}, fmt.Errorf("stored data for %s is invalid: %w", id, err)
	}

	var r report.Report
	if err := r.UnmarshalBinary(raw); err != nil {
		return report.Report{}, fmt.Errorf("stored data for %s is invalid: %w", id, err)
	}
	if r.ID != stored {
		return report.Report{}, fmt.Errorf("stored data for %s is for report %s", id, r.ID)
	}
	return r, nil
}

func scanReports(rows *sql.Rows) ([]report.Report, error) {
	defer rows.Close()

	var all []report.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return all, err
		}
		all = append(all, r)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}
