package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(dir string, created time.Time) report.Report {
	r := report.New(dir)
	r.Created = created
	r.Ruleset = "Classic"
	r.Counts["techs"] = 87
	r.Add(report.Purge, "effect \"effect_x\" (Defend_Bonus): requirements can never all be fulfilled; removing it")
	return *r
}

func Test_Reports_CreateAndGet(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewReportsRepository()

	r := newReport("rules/classic", time.Now())
	created, err := repo.Create(ctx, r)
	require.NoError(t, err)
	assert.Equal(r.ID, created.ID)

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(r, got)

	// changing the returned copy does not change what is stored
	got.Counts["techs"] = 0
	got.Warnings[0].Message = "changed"
	again, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(87, again.Counts["techs"])
	assert.Equal(r.Warnings[0].Message, again.Warnings[0].Message)
}

func Test_Reports_CreateGeneratesID(t *testing.T) {
	repo := NewReportsRepository()

	r := newReport("rules/classic", time.Now())
	r.ID = uuid.Nil

	created, err := repo.Create(context.Background(), r)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func Test_Reports_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewReportsRepository()

	r := newReport("rules/classic", time.Now())
	_, err := repo.Create(ctx, r)
	require.NoError(t, err)

	_, err = repo.Create(ctx, r)
	assert.ErrorIs(t, err, store.ErrConstraintViolation)
}

func Test_Reports_ByDir(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewReportsRepository()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := newReport("rules/classic", base)
	newest := newReport("rules/classic", base.Add(2*time.Hour))
	middle := newReport("rules/classic", base.Add(time.Hour))
	other := newReport("rules/civ2", base.Add(3*time.Hour))

	for _, r := range []report.Report{oldest, newest, middle, other} {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	byDir, err := repo.GetAllByDir(ctx, "rules/classic")
	require.NoError(t, err)
	require.Len(t, byDir, 3)
	assert.Equal(newest.ID, byDir[0].ID)
	assert.Equal(middle.ID, byDir[1].ID)
	assert.Equal(oldest.ID, byDir[2].ID)

	latest, err := repo.Latest(ctx, "rules/classic")
	require.NoError(t, err)
	assert.Equal(newest.ID, latest.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(other.ID, all[0].ID)

	_, err = repo.Latest(ctx, "rules/nowhere")
	assert.ErrorIs(err, store.ErrNotFound)
}

func Test_Reports_Delete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewReportsRepository()

	r := newReport("rules/classic", time.Now())
	_, err := repo.Create(ctx, r)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(r.ID, deleted.ID)

	_, err = repo.GetByID(ctx, r.ID)
	assert.ErrorIs(err, store.ErrNotFound)

	byDir, err := repo.GetAllByDir(ctx, r.Dir)
	require.NoError(t, err)
	assert.Empty(byDir)

	_, err = repo.Delete(ctx, r.ID)
	assert.ErrorIs(err, store.ErrNotFound)
}

func Test_NewDatastore(t *testing.T) {
	st := NewDatastore()
	require.NotNil(t, st.Reports())
	assert.NoError(t, st.Close())
}
