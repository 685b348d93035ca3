package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/DoyleJ11/library-dashboard/internal/clock"
	"github.com/DoyleJ11/library-dashboard/internal/format"
	"github.com/DoyleJ11/library-dashboard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoTS = 1700000000

var now = time.Unix(demoTS, 0).Add(3 * time.Hour)

func demoSnapshot() types.Snapshot {
	return types.Snapshot{Library: map[string]types.Project{
		"p1": {
			Name:      "Demo.fcpbundle",
			Checkouts: map[string]types.Checkout{"host1": {Path: "/a", Last: types.EpochPtr(demoTS)}},
		},
	}}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(clock.Fake(now), time.UTC)
	require.NoError(t, err)
	return r
}

func TestFragment_EndToEnd(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Fragment(&buf, demoSnapshot()))
	html := buf.String()

	assert.Contains(t, html, `<li class="pname">Demo</li>`)
	assert.NotContains(t, html, "Demo.fcpbundle")
	assert.Contains(t, html, `<li class="chost">host1</li>`)
	assert.Contains(t, html, `<li class="cpath">/a</li>`)
	assert.Contains(t, html, ">3 hours ago</li>")
	assert.NotContains(t, html, ">"+format.Opened+"<")
	assert.Contains(t, html, `title="Tue, Nov 14, 10:13 pm"`)
}

func TestFragment_EmptyLibrary(t *testing.T) {
	for _, s := range []types.Snapshot{types.EmptySnapshot(), {}} {
		var buf bytes.Buffer
		require.NoError(t, newRenderer(t).Fragment(&buf, s))
		assert.Equal(t, `<ul class="library">`+"\n</ul>", buf.String())
	}
}

func TestFragment_EscapesBackendText(t *testing.T) {
	s := types.Snapshot{Library: map[string]types.Project{
		"<id>": {Name: `<script>alert(1)</script>`, Checkouts: map[string]types.Checkout{
			`"host"`: {Path: "/a&b"},
		}},
	}}
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Fragment(&buf, s))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Contains(t, buf.String(), "/a&amp;b")
}

func TestBuild_NeverRecordedCheckout(t *testing.T) {
	s := types.Snapshot{Library: map[string]types.Project{
		"p1": {Name: "Fresh.fcpbundle", Checkouts: map[string]types.Checkout{
			"host1": {Path: "/a"},
			"host2": {Path: "/b", Last: types.EpochPtr(0)},
		}},
	}}
	lib := Build(s, now, time.UTC)

	require.Len(t, lib.Projects, 1)
	p := lib.Projects[0]
	assert.Equal(t, format.JustOpened, p.LastActivity)
	for _, c := range p.Checkouts {
		assert.Equal(t, format.Opened, c.LastSeen)
		assert.Empty(t, c.LastSeenAt)
	}
}

func TestBuild_Ordering(t *testing.T) {
	s := types.Snapshot{Library: map[string]types.Project{
		"z": {Name: "Alpha.fcpbundle", Checkouts: map[string]types.Checkout{
			"mac-b": {Path: "/b"}, "mac-a": {Path: "/a"},
		}},
		"a": {Name: "Beta.fcpbundle"},
		"m": {Name: "Alpha"},
	}}
	lib := Build(s, now, time.UTC)

	ids := []string{}
	for _, p := range lib.Projects {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"m", "z", "a"}, ids)
	assert.Equal(t, "mac-a", lib.Projects[1].Checkouts[0].Host)
	assert.Empty(t, lib.Projects[2].Checkouts)
}

func TestBuild_VersionOnlyWhenPresent(t *testing.T) {
	s := types.Snapshot{Library: map[string]types.Project{
		"with": {Name: "With", Info: &types.VersionInfo{
			Version:      types.StringPtr("with_v4.mov"),
			VersionMTime: types.EpochPtr(demoTS),
		}},
		"mtime-only": {Name: "MtimeOnly", Info: &types.VersionInfo{VersionMTime: types.EpochPtr(demoTS)}},
		"none":       {Name: "None"},
	}}
	lib := Build(s, now, time.UTC)
	byID := map[string]Project{}
	for _, p := range lib.Projects {
		byID[p.ID] = p
	}

	assert.Equal(t, "with_v4.mov", byID["with"].Version)
	assert.Equal(t, "Tue, Nov 14, 10:13 pm", byID["with"].VersionAt)
	assert.Equal(t, "3 hours ago", byID["with"].VersionAgo)

	for _, id := range []string{"mtime-only", "none"} {
		assert.Empty(t, byID[id].Version, id)
		assert.Empty(t, byID[id].VersionAt, id)
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Fragment(&buf, s))
	assert.Equal(t, 1, strings.Count(buf.String(), `class="pversion"`))
}

func TestPage_EmbedsLibraryAndLiveScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Page(&buf, demoSnapshot(), 7))
	html := buf.String()

	assert.Contains(t, html, `data-version="7"`)
	assert.Contains(t, html, `<li class="pname">Demo</li>`)
	assert.Contains(t, html, `"/ws"`)
	assert.Contains(t, html, "setTimeout(connect, 5000);")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Build(demoSnapshot(), now, time.UTC), true))
	assert.Equal(t, "Demo  p1  3 hours ago\n  host1  /a  3 hours ago\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteText(&buf, Build(types.EmptySnapshot(), now, time.UTC), true))
	assert.Equal(t, "(no projects)\n", buf.String())
}
