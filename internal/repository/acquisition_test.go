//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannedAcquisition(satellite, path, row string, at time.Time) domain.PlannedAcquisition {
	return domain.PlannedAcquisition{
		Satellite: satellite,
		Path:      path,
		Row:       row,
		BeginTime: at,
	}
}

func TestAcquisitionRepository_AppendAndQueryPlan(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAcquisitionRepository(pool)

	day := time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)
	records := []domain.PlannedAcquisition{
		plannedAcquisition("Landsat-8", "160", "41", day.Add(6*time.Hour)),
		plannedAcquisition("Landsat-8", "161", "42", day.Add(7*time.Hour)),
	}

	require.NoError(t, repo.AppendAcquisitions(ctx, "Landsat-8", day, records))

	rows, err := repo.QueryPlan(ctx, []string{"Landsat-8"}, "160", "41", day)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Landsat-8", rows[0].Satellite)
	assert.Equal(t, "160", rows[0].Path)
	assert.Equal(t, "41", rows[0].Row)
	assert.True(t, rows[0].AcquiredAt.Equal(day.Add(6*time.Hour)))

	// only acquisitions strictly after the cutoff
	rows, err = repo.QueryPlan(ctx, []string{"Landsat-8"}, "160", "41", day.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, rows)

	// unknown satellite matches nothing
	rows, err = repo.QueryPlan(ctx, []string{"Landsat-9"}, "160", "41", day)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAcquisitionRepository_AppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAcquisitionRepository(pool)

	day := time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)
	records := []domain.PlannedAcquisition{
		plannedAcquisition("Landsat-8", "160", "41", day.Add(6*time.Hour)),
	}

	require.NoError(t, repo.AppendAcquisitions(ctx, "Landsat-8", day, records))
	// Overlapping crawl windows fetch the same day again.
	require.NoError(t, repo.AppendAcquisitions(ctx, "Landsat-8", day, records))

	rows, err := repo.QueryByDay(ctx, day)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAcquisitionRepository_Watermark(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAcquisitionRepository(pool)

	watermark, err := repo.LatestWatermark(ctx, "Landsat-8")
	require.NoError(t, err)
	assert.Nil(t, watermark)

	day1 := time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 5)
	require.NoError(t, repo.AppendAcquisitions(ctx, "Landsat-8", day1,
		[]domain.PlannedAcquisition{plannedAcquisition("Landsat-8", "160", "41", day1.Add(time.Hour))}))
	require.NoError(t, repo.AppendAcquisitions(ctx, "Landsat-8", day2,
		[]domain.PlannedAcquisition{plannedAcquisition("Landsat-8", "160", "41", day2.Add(time.Hour))}))

	watermark, err = repo.LatestWatermark(ctx, "Landsat-8")
	require.NoError(t, err)
	require.NotNil(t, watermark)
	assert.True(t, watermark.Equal(day2))

	// watermarks are per satellite
	watermark, err = repo.LatestWatermark(ctx, "Landsat-9")
	require.NoError(t, err)
	assert.Nil(t, watermark)
}

func TestAcquisitionRepository_AppendIsAtomic(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAcquisitionRepository(pool)

	day := time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)

	// Force the watermark insert, the last write in the transaction, to
	// fail: add a uniqueness constraint and pre-insert a conflicting row.
	_, err := pool.Exec(ctx, `ALTER TABLE crawl_watermarks ADD CONSTRAINT one_per_day UNIQUE (satellite, has_info_date)`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO crawl_watermarks (satellite, has_info_date) VALUES ('Landsat-8', $1)`, day)
	require.NoError(t, err)

	records := []domain.PlannedAcquisition{
		plannedAcquisition("Landsat-8", "160", "41", day.Add(time.Hour)),
		plannedAcquisition("Landsat-8", "161", "42", day.Add(2*time.Hour)),
	}

	err = repo.AppendAcquisitions(ctx, "Landsat-8", day, records)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeStoreError, domainErr.Code)

	rows, err := repo.QueryByDay(ctx, day)
	require.NoError(t, err)
	assert.Empty(t, rows, "failed watermark write must roll back the acquisition rows")
}

func TestAcquisitionRepository_QueryByDay_Bounds(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAcquisitionRepository(pool)

	day := time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)
	records := []domain.PlannedAcquisition{
		plannedAcquisition("Landsat-8", "160", "41", day),
		plannedAcquisition("Landsat-8", "160", "41", day.Add(23*time.Hour+59*time.Minute)),
		plannedAcquisition("Landsat-8", "160", "41", day.AddDate(0, 0, 1)),
	}
	require.NoError(t, repo.AppendAcquisitions(ctx, "Landsat-8", day, records))

	rows, err := repo.QueryByDay(ctx, day)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "midnight of the next day belongs to the next day")
}
