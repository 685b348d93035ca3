// Package format turns raw snapshot values into display strings. Every function
// is pure: the caller passes the time to measure against and the location to
// print in, so renders are reproducible in tests.
package format

import (
	"strings"
	"time"

	"github.com/DoyleJ11/library-dashboard/pkg/types"
	"github.com/dustin/go-humanize"
)

const (
	// JustOpened is shown for a project nobody has touched since it was opened.
	JustOpened = "Just opened"
	// Opened is shown in a checkout row that has no recorded access yet.
	Opened = "Opened"

	bundleSuffix   = ".fcpbundle"
	absoluteLayout = "Mon, Jan 2, 3:04 pm"
)

// RelativeTime renders ts relative to now ("3 hours ago"). A missing or zero
// timestamp has never been recorded and renders as absent.
func RelativeTime(ts *types.Epoch, now time.Time, absent string) string {
	if !recorded(ts) {
		return absent
	}
	return humanize.RelTime(ts.Time(), now, "ago", "from now")
}

func OpenedAgo(ts *types.Epoch, now time.Time) string {
	return RelativeTime(ts, now, JustOpened)
}

func LastAccess(ts *types.Epoch, now time.Time) string {
	return RelativeTime(ts, now, Opened)
}

// AbsoluteTime renders ts as e.g. "Tue, Nov 14, 10:13 pm", or "" when absent.
func AbsoluteTime(ts *types.Epoch, loc *time.Location) string {
	if !recorded(ts) {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return ts.Time().In(loc).Format(absoluteLayout)
}

func ProjectTitle(name string) string {
	return strings.Replace(name, bundleSuffix, "", 1)
}

// VersionLabel is empty unless the project reports an exported version.
func VersionLabel(info *types.VersionInfo) string {
	if !info.HasVersion() {
		return ""
	}
	return *info.Version
}

func recorded(ts *types.Epoch) bool {
	return ts != nil && *ts != 0
}
