package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/varsity/internal/app"
	"github.com/okian/varsity/internal/domain/eligibility"
	"github.com/okian/varsity/internal/domain/model"
	"github.com/okian/varsity/internal/domain/validation"
	"github.com/okian/varsity/internal/monitor"
)

// stubDeps is a canned Dependencies implementation for handler tests.
type stubDeps struct {
	report    service.CourseReport
	reportErr error
	result    eligibility.Result
	assessErr error

	lastQuery service.Query
}

func (s *stubDeps) CoursesForInstitution(_ context.Context, q service.Query) (service.CourseReport, error) {
	s.lastQuery = q
	return s.report, s.reportErr
}

func (s *stubDeps) AssessProgram(_ context.Context, _, _ string, _ int, _ []model.UserSubject) (eligibility.Result, error) {
	return s.result, s.assessErr
}

func (s *stubDeps) ValidateAPS(aps int) eligibility.APSValidation {
	return eligibility.ValidateAPS(aps)
}

func (s *stubDeps) CatalogReport(_ context.Context) validation.CatalogReport {
	return validation.CatalogReport{TotalPrograms: 2, ValidPrograms: 2, AverageQuality: 100}
}

func (s *stubDeps) HealthReport() monitor.HealthReport {
	return monitor.New().HealthReport()
}

func (s *stubDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestMux(deps *stubDeps) *http.ServeMux {
	mux := http.NewServeMux()
	srv := NewServer(deps, deps, 100)
	srv.Register(context.Background(), mux)
	return mux
}

func TestHandleGetCourses(t *testing.T) {
	Convey("Given the courses endpoint", t, func() {
		deps := &stubDeps{report: service.CourseReport{InstitutionID: "uct", InstitutionName: "University of Cape Town"}}
		mux := newTestMux(deps)

		Convey("When requesting courses with full query parameters", func() {
			req := httptest.NewRequest(http.MethodGet,
				"/universities/uct/courses?aps=32&include_almost=true&limit=10&subject=Mathematics:6&subject=Physical+Sciences:5", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the query is decoded and the report returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery.InstitutionID, ShouldEqual, "uct")
				So(deps.lastQuery.UserAPS, ShouldNotBeNil)
				So(*deps.lastQuery.UserAPS, ShouldEqual, 32)
				So(deps.lastQuery.IncludeAlmost, ShouldNotBeNil)
				So(*deps.lastQuery.IncludeAlmost, ShouldBeTrue)
				So(deps.lastQuery.Limit, ShouldEqual, 10)
				So(deps.lastQuery.UserSubjects, ShouldResemble, []model.UserSubject{
					{Name: "Mathematics", Level: 6},
					{Name: "Physical Sciences", Level: 5},
				})

				var report service.CourseReport
				So(json.Unmarshal(rec.Body.Bytes(), &report), ShouldBeNil)
				So(report.InstitutionName, ShouldEqual, "University of Cape Town")
			})
		})

		Convey("When requesting without optional parameters", func() {
			req := httptest.NewRequest(http.MethodGet, "/universities/uct/courses", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then browse mode is used", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery.UserAPS, ShouldBeNil)
			})
		})

		Convey("When the path is malformed", func() {
			for _, path := range []string{"/universities//courses", "/universities/uct", "/universities/uct/other"} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the aps parameter is not numeric", func() {
			req := httptest.NewRequest(http.MethodGet, "/universities/uct/courses?aps=abc", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the subject parameter is malformed", func() {
			for _, sub := range []string{"Mathematics", "Mathematics:", ":6", "Mathematics:six"} {
				req := httptest.NewRequest(http.MethodGet, "/universities/uct/courses?subject="+sub, nil)
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the maximum", func() {
			req := httptest.NewRequest(http.MethodGet, "/universities/uct/courses?limit=1000", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the institution is unknown", func() {
			deps.reportErr = ErrNotFound
			req := httptest.NewRequest(http.MethodGet, "/universities/nowhere/courses", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest(http.MethodPost, "/universities/uct/courses", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandleAssess(t *testing.T) {
	Convey("Given the assess endpoint", t, func() {
		deps := &stubDeps{result: eligibility.Result{IsEligible: true, Category: eligibility.CategoryEligible, Confidence: 100}}
		mux := newTestMux(deps)

		Convey("When posting a valid assessment request", func() {
			body, _ := json.Marshal(assessRequest{
				ProgramID:     "bsc-cs",
				InstitutionID: "uct",
				UserAPS:       35,
				UserSubjects:  []model.UserSubject{{Name: "Mathematics", Level: 6}},
			})
			req := httptest.NewRequest(http.MethodPost, "/assess", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the verdict is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var res eligibility.Result
				So(json.Unmarshal(rec.Body.Bytes(), &res), ShouldBeNil)
				So(res.Category, ShouldEqual, eligibility.CategoryEligible)
			})
		})

		Convey("When the body is not JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/assess", bytes.NewBufferString("{"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When required fields are missing", func() {
			body, _ := json.Marshal(assessRequest{InstitutionID: "uct"})
			req := httptest.NewRequest(http.MethodPost, "/assess", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the program does not exist", func() {
			deps.assessErr = ErrNotFound
			body, _ := json.Marshal(assessRequest{ProgramID: "missing", InstitutionID: "uct"})
			req := httptest.NewRequest(http.MethodPost, "/assess", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest(http.MethodGet, "/assess", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandleValidateAPS(t *testing.T) {
	Convey("Given the APS validation endpoint", t, func() {
		mux := newTestMux(&stubDeps{})

		Convey("When validating a sane score", func() {
			req := httptest.NewRequest(http.MethodGet, "/aps/validate?score=35", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the score passes unchanged", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var v eligibility.APSValidation
				So(json.Unmarshal(rec.Body.Bytes(), &v), ShouldBeNil)
				So(v.IsValid, ShouldBeTrue)
				So(v.NormalizedAPS, ShouldEqual, 35)
			})
		})

		Convey("When validating a negative score", func() {
			req := httptest.NewRequest(http.MethodGet, "/aps/validate?score=-3", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the score is clamped with a warning", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var v eligibility.APSValidation
				So(json.Unmarshal(rec.Body.Bytes(), &v), ShouldBeNil)
				So(v.IsValid, ShouldBeFalse)
				So(v.NormalizedAPS, ShouldEqual, 0)
				So(v.Warnings, ShouldNotBeEmpty)
			})
		})

		Convey("When the score is not numeric", func() {
			req := httptest.NewRequest(http.MethodGet, "/aps/validate?score=abc", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHandleReports(t *testing.T) {
	Convey("Given the report endpoints", t, func() {
		mux := newTestMux(&stubDeps{})

		Convey("When fetching the catalog report", func() {
			req := httptest.NewRequest(http.MethodGet, "/catalog/report", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the validation summary is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var report validation.CatalogReport
				So(json.Unmarshal(rec.Body.Bytes(), &report), ShouldBeNil)
				So(report.TotalPrograms, ShouldEqual, 2)
			})
		})

		Convey("When fetching the health report", func() {
			req := httptest.NewRequest(http.MethodGet, "/health/report", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then a scored health verdict is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var report monitor.HealthReport
				So(json.Unmarshal(rec.Body.Bytes(), &report), ShouldBeNil)
				So(report.Score, ShouldEqual, 100)
			})
		})
	})
}

func TestHandleStats(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		mux := newTestMux(&stubDeps{})

		Convey("When fetching stats", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the stats map is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var stats map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}
