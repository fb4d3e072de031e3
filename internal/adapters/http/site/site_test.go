package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a registered site", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		Convey("When requesting the root", func() {
			w := get("/")

			Convey("Then it serves the dashboard page", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, `href="/players"`)
				So(w.Body.String(), ShouldContainSubstring, `href="/api-docs"`)
			})
		})

		Convey("When requesting an asset", func() {
			w := get("/static/style.css")

			Convey("Then it is served from the embedded files", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
			})
		})

		Convey("When requesting an unknown path", func() {
			w := get("/nope")

			Convey("Then the mux answers 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then registering panics", func() {
			So(func() {
				Register(context.Background(), nil)
			}, ShouldPanic)
		})
	})
}
