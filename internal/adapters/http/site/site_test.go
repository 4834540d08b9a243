package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given the static asset routes", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		serve := func(method, target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, target, nil))
			return w
		}

		Convey("When fetching the stylesheet", func() {
			w := serve(http.MethodGet, "/static/css/dashboard.css")

			Convey("Then it is served as CSS with caching", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
				So(w.Header().Get("Cache-Control"), ShouldEqual, "public, max-age=300")
				So(w.Body.String(), ShouldContainSubstring, ".event-table tr.odd")
			})
		})

		Convey("When fetching the script", func() {
			w := serve(http.MethodGet, "/static/js/dashboard.js")

			Convey("Then it refreshes the table and summary fragments", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "javascript")
				So(w.Body.String(), ShouldContainSubstring, "/partials/table?")
				So(w.Body.String(), ShouldContainSubstring, "/partials/summary?")
			})
		})

		Convey("When fetching a missing asset", func() {
			So(serve(http.MethodGet, "/static/js/missing.js").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When listing a directory", func() {
			So(serve(http.MethodGet, "/static/").Code, ShouldEqual, http.StatusNotFound)
			So(serve(http.MethodGet, "/static/css/").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When posting to an asset", func() {
			So(serve(http.MethodPost, "/static/css/dashboard.css").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When requesting paths outside the prefix", func() {
			So(serve(http.MethodGet, "/").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}
