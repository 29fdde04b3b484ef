package services

import (
	"testing"
	"time"

	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
	"ledgerly/internal/testutil"
)

func TestRunLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewRunLogService(db)

	start := time.Now().Add(-time.Minute)
	svc.Record(models.RunIngest, start, RunCounts{Inserted: 3, Skipped: 1}, map[string]int{"rows": 4})
	svc.Record(models.RunRecompute, start.Add(time.Second), RunCounts{Inserted: 10}, nil)

	t.Run("list_all", func(t *testing.T) {
		resp, err := svc.List(pagination.PageRequest{}, nil)
		testutil.AssertNoError(t, err)
		if resp.TotalItems != 2 {
			t.Fatalf("expected 2 runs, got %d", resp.TotalItems)
		}
		if resp.Data[0].Kind != models.RunRecompute {
			t.Errorf("expected most recent run first, got %s", resp.Data[0].Kind)
		}
		if resp.Data[0].ID == "" {
			t.Error("expected a generated run id")
		}
	})

	t.Run("filter_kind", func(t *testing.T) {
		kind := models.RunIngest
		resp, err := svc.List(pagination.PageRequest{}, &kind)
		testutil.AssertNoError(t, err)
		if resp.TotalItems != 1 {
			t.Fatalf("expected 1 ingest run, got %d", resp.TotalItems)
		}
		run := resp.Data[0]
		if run.Inserted != 3 || run.Skipped != 1 || run.Details != `{"rows":4}` {
			t.Errorf("unexpected run %+v", run)
		}
		if run.FinishedAt.Before(run.StartedAt) {
			t.Error("finished_at must not precede started_at")
		}
	})
}
