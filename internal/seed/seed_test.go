package seed_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/hirelens/hirestats/internal/adapters/repository"
	"github.com/hirelens/hirestats/internal/seed"
	"github.com/hirelens/hirestats/pkg/logger"
)

func TestGenerate(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Convey("Given a small generation config", t, func() {
		cfg := &seed.Config{
			NumPostings: 500,
			NumJobs:     3,
			Countries:   []string{"", "US"},
			BatchSize:   100,
			MissingRate: 0.2,
		}

		Convey("When generating postings", func() {
			postings := seed.Generate(cfg)

			Convey("Then the count and id uniqueness hold", func() {
				So(len(postings), ShouldEqual, 500)
				seen := make(map[string]bool, len(postings))
				for _, p := range postings {
					So(seen[p.ID], ShouldBeFalse)
					seen[p.ID] = true
				}
			})

			Convey("And durations are positive where present", func() {
				var missing int
				for _, p := range postings {
					if !p.DaysToHire.Valid {
						missing++
						continue
					}
					So(p.DaysToHire.Int64, ShouldBeGreaterThan, 0)
				}
				// With a 0.2 missing rate over 500 draws some must be missing
				// and some present.
				So(missing, ShouldBeGreaterThan, 0)
				So(missing, ShouldBeLessThan, 500)
			})
		})
	})
}

func TestRun(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Convey("Given an in-memory store", t, func() {
		ctx := context.Background()
		store, err := repository.Open(ctx, "sqlite3", ":memory:")
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("When seeding with a tiny config", func() {
			cfg := &seed.Config{
				NumPostings: 120,
				NumJobs:     2,
				Countries:   []string{""},
				BatchSize:   50,
			}
			inserted, err := seed.Run(ctx, store, cfg)

			Convey("Then every posting lands in the store", func() {
				So(err, ShouldBeNil)
				So(inserted, ShouldEqual, 120)

				count, err := store.CountEligible(ctx)
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 120)
			})
		})
	})
}
