package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/okian/shoresquad/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// recordingLogger keeps messages per level.
type recordingLogger struct {
	mu    sync.Mutex
	debug []string
	warn  []string
}

func (l *recordingLogger) Info(context.Context, string, ...logger.Field)  {}
func (l *recordingLogger) Error(context.Context, string, ...logger.Field) {}

func (l *recordingLogger) Debug(_ context.Context, msg string, _ ...logger.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, msg)
}

func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...logger.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warn = append(l.warn, msg)
}

func (l *recordingLogger) Named(string) logger.Logger { return l }

func TestInstrument(t *testing.T) {
	Convey("Given an instrumented handler", t, func() {
		log := &recordingLogger{}
		in := instrument{log: log}

		Convey("When it answers with a client error", func() {
			h := in.wrap("test", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTeapot)
				_, _ = w.Write([]byte("short and stout"))
			})
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then the inner status and body should pass through", func() {
				So(w.Code, ShouldEqual, http.StatusTeapot)
				So(w.Body.String(), ShouldEqual, "short and stout")
			})

			Convey("And the request should be logged at debug level", func() {
				So(log.debug, ShouldResemble, []string{"request served"})
				So(log.warn, ShouldBeEmpty)
			})
		})

		Convey("When the response cannot be encoded", func() {
			h := in.wrap("test", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, map[string]float64{"value": math.NaN()})
			})
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then a 500 with an error body should be sent", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				var body errorResponse
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "encode_failed")
			})

			Convey("And the failure should be logged as a warning", func() {
				So(log.warn, ShouldResemble, []string{"request failed"})
			})
		})
	})

	Convey("Error classes should follow the status", t, func() {
		So(errorClass(http.StatusInternalServerError), ShouldEqual, "server_error")
		So(errorClass(http.StatusBadGateway), ShouldEqual, "server_error")
		So(errorClass(http.StatusNotFound), ShouldEqual, "not_found")
		So(errorClass(http.StatusMethodNotAllowed), ShouldEqual, "method_not_allowed")
		So(errorClass(http.StatusBadRequest), ShouldEqual, "client_error")
		So(errorClass(http.StatusSeeOther), ShouldEqual, "")
		So(errorClass(http.StatusOK), ShouldEqual, "")
	})
}

func TestWriteJSON(t *testing.T) {
	Convey("Given an encodable value", t, func() {
		w := httptest.NewRecorder()
		writeJSON(w, http.StatusCreated, map[string]int{"n": 1})

		So(w.Code, ShouldEqual, http.StatusCreated)
		So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
		So(w.Body.String(), ShouldEqual, "{\"n\":1}\n")
	})

	Convey("Given a value JSON cannot represent", t, func() {
		w := httptest.NewRecorder()
		writeJSON(w, http.StatusOK, map[string]float64{"lat": math.Inf(1)})

		So(w.Code, ShouldEqual, http.StatusInternalServerError)
		So(w.Body.String(), ShouldContainSubstring, `"code":"encode_failed"`)
	})
}
