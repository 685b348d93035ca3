// Package view projects a library snapshot into a display tree and renders it.
// The tree is rebuilt from scratch for every render; nothing is cached between
// snapshots.
package view

import (
	"cmp"
	"slices"
	"time"

	"github.com/DoyleJ11/library-dashboard/internal/format"
	"github.com/DoyleJ11/library-dashboard/pkg/types"
	"github.com/samber/lo"
)

type Library struct {
	Projects []Project
}

type Project struct {
	ID           string
	Name         string // as reported, e.g. "projectx.fcpbundle"
	Title        string // Name without the bundle suffix
	LastActivity string
	Version      string
	VersionAt    string
	VersionAgo   string
	Checkouts    []Checkout
}

type Checkout struct {
	Host       string
	Path       string
	LastSeen   string
	LastSeenAt string
}

// Build is pure: the same snapshot, now and loc always give the same tree.
// Projects are ordered by title, then id; checkouts by host.
func Build(s types.Snapshot, now time.Time, loc *time.Location) Library {
	projects := lo.Map(s.ProjectIDs(), func(id string, _ int) Project {
		return buildProject(id, s.Library[id], now, loc)
	})
	slices.SortStableFunc(projects, func(a, b Project) int {
		return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.ID, b.ID))
	})
	return Library{Projects: projects}
}

func buildProject(id string, p types.Project, now time.Time, loc *time.Location) Project {
	out := Project{
		ID:           id,
		Name:         p.Name,
		Title:        format.ProjectTitle(p.Name),
		LastActivity: format.OpenedAgo(p.LatestAccess(), now),
		Version:      format.VersionLabel(p.Info),
	}
	if out.Version != "" {
		out.VersionAt = format.AbsoluteTime(p.Info.VersionMTime, loc)
		if out.VersionAt != "" {
			out.VersionAgo = format.RelativeTime(p.Info.VersionMTime, now, "")
		}
	}
	out.Checkouts = lo.Map(p.Hosts(), func(host string, _ int) Checkout {
		c := p.Checkouts[host]
		return Checkout{
			Host:       host,
			Path:       c.Path,
			LastSeen:   format.LastAccess(c.Last, now),
			LastSeenAt: format.AbsoluteTime(c.Last, loc),
		}
	})
	return out
}
