package config_test

import (
	"context"
	"testing"

	"github.com/hirelens/hirestats/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.DBDriver, convey.ShouldEqual, "sqlite3")
			convey.So(cfg.DBDSN, convey.ShouldEqual, "hirestats.db")
			convey.So(cfg.PageSize, convey.ShouldEqual, 1000)
			convey.So(cfg.MinJobPostings, convey.ShouldEqual, 5)
			convey.So(cfg.QueryTimeoutMS, convey.ShouldEqual, 5000)
		})
	})
}
