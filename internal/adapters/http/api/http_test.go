package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hirelens/hirestats/internal/adapters/http/api"
	repository "github.com/hirelens/hirestats/internal/adapters/repository"
	"github.com/hirelens/hirestats/internal/domain/model"
)

// Mock implementations for testing
type mockDeps struct {
	entries map[string]model.StatsEntry
	err     error
}

func (m *mockDeps) Lookup(_ context.Context, standardJobID string, countryCode *string) (model.StatsEntry, error) {
	if m.err != nil {
		return model.StatsEntry{}, m.err
	}
	key := standardJobID + "_world"
	if countryCode != nil {
		key = standardJobID + "_" + *countryCode
	}
	entry, ok := m.entries[key]
	if !ok {
		return model.StatsEntry{}, repository.ErrNotFound
	}
	return entry, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestServer(deps api.Dependencies, provider api.StatsProvider) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, provider).Register(context.Background(), mux)
	return mux
}

func TestLookupEndpoint(t *testing.T) {
	Convey("Given a server with one persisted worldwide record", t, func() {
		deps := &mockDeps{entries: map[string]model.StatsEntry{
			"SJ1_world": {
				StandardJobID: "SJ1",
				MinDays:       10,
				AvgDays:       11,
				MaxDays:       14,
				JobPostings:   8,
			},
		}}
		mux := newTestServer(deps, &mockStatsProvider{})

		Convey("When looking up the worldwide aggregate", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats/days-to-hire?standard_job_id=SJ1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return the summary fields", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["standard_job_id"], ShouldEqual, "SJ1")
				So(body["country_code"], ShouldBeNil)
				So(body["min_days"], ShouldEqual, 10)
				So(body["avg_days"], ShouldEqual, 11)
				So(body["max_days"], ShouldEqual, 14)
				So(body["job_postings_number"], ShouldEqual, 8)
			})
		})

		Convey("When looking up a country with no data", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats/days-to-hire?standard_job_id=SJ1&country_code=US", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 404 with a descriptive message", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)

				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["code"], ShouldEqual, "not_found")
				So(body["message"], ShouldContainSubstring, "SJ1")
				So(body["message"], ShouldContainSubstring, "US")
			})
		})

		Convey("When omitting standard_job_id", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats/days-to-hire", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)

				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When using a non-GET method", func() {
			req := httptest.NewRequest(http.MethodPost, "/stats/days-to-hire?standard_job_id=SJ1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a server whose store is failing", t, func() {
		deps := &mockDeps{err: context.DeadlineExceeded}
		mux := newTestServer(deps, &mockStatsProvider{})

		Convey("When looking up any record", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats/days-to-hire?standard_job_id=SJ1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return 500", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a server with a stats provider", t, func() {
		provider := &mockStatsProvider{stats: map[string]interface{}{
			"statsRecords": 2,
			"lastRunID":    "run-1",
		}}
		mux := newTestServer(&mockDeps{}, provider)

		Convey("When fetching service stats", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should return the provider map", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["statsRecords"], ShouldEqual, 2)
				So(body["lastRunID"], ShouldEqual, "run-1")
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given a registered server", t, func() {
		mux := newTestServer(&mockDeps{}, &mockStatsProvider{})

		Convey("When probing /healthz", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should serve the metrics registry", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
