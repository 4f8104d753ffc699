package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRegister(t *testing.T) {
	convey.Convey("Given a mux with docs routes registered", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		convey.Convey("When fetching the ReDoc page", func() {
			req := httptest.NewRequest(http.MethodGet, "/api-docs", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			convey.Convey("Then it should serve HTML", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rec.Header().Get("Content-Type"), convey.ShouldContainSubstring, "text/html")
				convey.So(rec.Body.String(), convey.ShouldContainSubstring, "Redoc.init")
			})
		})

		convey.Convey("When fetching the OpenAPI spec", func() {
			req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			convey.Convey("Then it should serve the embedded YAML", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(strings.Contains(rec.Body.String(), "days-to-hire"), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRegisterNilMux(t *testing.T) {
	convey.Convey("Given a nil mux", t, func() {
		convey.So(func() { Register(context.Background(), nil) }, convey.ShouldPanic)
	})
}
