package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/DoyleJ11/library-dashboard/internal/clock"
	"github.com/DoyleJ11/library-dashboard/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns snapshots into HTML. Relative times are measured against the
// renderer's clock when Fragment or Page is called.
type Renderer struct {
	tmpl      *template.Template
	clock     clock.Clock
	loc       *time.Location
	reconnect time.Duration
}

func NewRenderer(clk clock.Clock, loc *time.Location) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if clk == nil {
		clk = clock.Real()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{tmpl: tmpl, clock: clk, loc: loc, reconnect: 5 * time.Second}, nil
}

func (r *Renderer) Build(s types.Snapshot) Library {
	return Build(s, r.clock.Now(), r.loc)
}

// Fragment writes the <ul class="library"> element alone.
func (r *Renderer) Fragment(w io.Writer, s types.Snapshot) error {
	return r.tmpl.ExecuteTemplate(w, "library", r.Build(s))
}

// Page writes a full document that keeps itself current over /ws.
func (r *Renderer) Page(w io.Writer, s types.Snapshot, version int) error {
	return r.tmpl.ExecuteTemplate(w, "page", struct {
		Library     Library
		Version     int
		ReconnectMs template.JS
	}{
		Library:     r.Build(s),
		Version:     version,
		ReconnectMs: template.JS(strconv.FormatInt(r.reconnect.Milliseconds(), 10)),
	})
}
