package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/hirelens/hirestats/internal/adapters/repository"
	service "github.com/hirelens/hirestats/internal/app"
	"github.com/hirelens/hirestats/internal/domain/model"
	"github.com/hirelens/hirestats/pkg/logger"
)

func initLogger(t *testing.T) {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
}

func world() sql.NullString { return sql.NullString{} }

func posting(id, jobID string, cc sql.NullString, d int64) model.JobPosting {
	return model.JobPosting{
		ID:            id,
		StandardJobID: jobID,
		CountryCode:   cc,
		DaysToHire:    sql.NullInt64{Int64: d, Valid: true},
	}
}

func ptr(s string) *string { return &s }

func TestService_Lifecycle(t *testing.T) {
	initLogger(t)

	Convey("Given a service backed by an in-memory store", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithDatabase("sqlite3", ":memory:"),
			service.WithPageSize(3),
			service.WithQueryTimeout(2*time.Second),
		)

		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When starting twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
		})

		Convey("When looking up before any run", func() {
			_, err := svc.Lookup(ctx, "SJ1", nil)
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When asking for service statistics", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["statsRecords"], ShouldEqual, int64(0))
			So(stats, ShouldNotContainKey, "lastRunID")
		})
	})

	Convey("Given an unreachable database", t, func() {
		svc := service.New(service.WithDatabase("postgres",
			"postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"))

		Convey("Then Start surfaces the open failure", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestService_Aggregation(t *testing.T) {
	initLogger(t)

	Convey("Given a started service with seeded postings", t, func() {
		ctx := context.Background()
		store, err := repository.Open(ctx, "sqlite3", ":memory:")
		So(err, ShouldBeNil)

		values := []int64{10, 12, 11, 13, 9, 14, 10, 12, 11, 100}
		postings := make([]model.JobPosting, 0, len(values))
		for i, v := range values {
			postings = append(postings, posting(
				"p"+string(rune('a'+i)), "SJ1", world(), v))
		}
		So(store.InsertPostings(ctx, postings), ShouldBeNil)

		svc := service.New(service.WithStore(store), service.WithPageSize(4))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When running the aggregation", func() {
			report, err := svc.RunAggregation(ctx)
			So(err, ShouldBeNil)
			So(report.PostingsScanned, ShouldEqual, 10)
			So(report.GroupsPersisted, ShouldEqual, 1)

			Convey("Then the worldwide lookup serves the trimmed summary", func() {
				entry, err := svc.Lookup(ctx, "SJ1", nil)
				So(err, ShouldBeNil)
				So(entry.StandardJobID, ShouldEqual, "SJ1")
				So(entry.CountryCode, ShouldBeNil)
				So(entry.MinDays, ShouldEqual, 10)
				So(entry.AvgDays, ShouldEqual, 11)
				So(entry.MaxDays, ShouldEqual, 14)
				So(entry.JobPostings, ShouldEqual, 8)
			})

			Convey("And a country-scoped lookup misses", func() {
				_, err := svc.Lookup(ctx, "SJ1", ptr("US"))
				So(err, ShouldEqual, repository.ErrNotFound)
			})

			Convey("And the audit row is recorded", func() {
				stats := svc.GetStats()
				So(stats["statsRecords"], ShouldEqual, int64(1))
				So(stats["lastRunID"], ShouldEqual, report.ID.String())
				So(stats["lastRunPostingsScanned"], ShouldEqual, int64(10))
			})
		})
	})
}
