package httpapi

import (
	"bytes"
	"net/http"

	"github.com/DoyleJ11/library-dashboard/internal/fetch"
	"github.com/DoyleJ11/library-dashboard/internal/live"
	"github.com/DoyleJ11/library-dashboard/internal/refresh"
	"github.com/DoyleJ11/library-dashboard/internal/view"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Index renders the whole page from the current snapshot.
func Index(m *live.Model, r *view.Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		u := m.Latest()
		var buf bytes.Buffer
		if err := r.Page(&buf, u.Snapshot, u.Version); err != nil {
			log.Error("render page", zap.Error(err))
			http.Error(w, "failed to render", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

// Fragment renders the library list alone.
func Fragment(m *live.Model, r *view.Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var buf bytes.Buffer
		if err := r.Fragment(&buf, m.Current()); err != nil {
			log.Error("render fragment", zap.Error(err))
			http.Error(w, "failed to render", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

// Library mirrors the backend document for whatever the model holds now.
func Library(m *live.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = fetch.Encode(w, m.Current())
	}
}

func Status(m *live.Model, st *refresh.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			refresh.Report
			ModelVersion int `json:"model_version"`
			Subscribers  int `json:"subscribers"`
		}{
			Report:       st.Get(),
			ModelVersion: m.Latest().Version,
			Subscribers:  m.Subscribers(),
		})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}
