package types

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Snapshot is the whole library as served by the backend:
//
//	{ "library": { <projectId>: Project } }
//
// A Snapshot is replaced wholesale and must not be mutated once published.
type Snapshot struct {
	Library map[string]Project `json:"library"`
}

// Project is one tracked project and the hosts that have it checked out.
type Project struct {
	Name      string              `json:"name"`
	Info      *VersionInfo        `json:"info,omitempty"`
	Checkouts map[string]Checkout `json:"checkouts"`
}

// Checkout is a single host's working copy. Last is nil until the host reports activity.
type Checkout struct {
	Path string `json:"path"`
	Last *Epoch `json:"last,omitempty"`
}

// VersionInfo describes the newest exported version found next to the project.
// VersionMTime only means something when Version is set.
type VersionInfo struct {
	Version      *string `json:"version,omitempty"`
	VersionMTime *Epoch  `json:"version_mtime,omitempty"`
}

// Epoch is whole seconds since the Unix epoch, UTC.
type Epoch int64

func EmptySnapshot() Snapshot {
	return Snapshot{Library: map[string]Project{}}
}

// ProjectIDs returns the library keys in a stable order.
func (s Snapshot) ProjectIDs() []string {
	ids := make([]string, 0, len(s.Library))
	for id := range s.Library {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Hosts returns the checkout hosts in a stable order.
func (p Project) Hosts() []string {
	hosts := make([]string, 0, len(p.Checkouts))
	for host := range p.Checkouts {
		hosts = append(hosts, host)
	}
	slices.Sort(hosts)
	return hosts
}

// LatestAccess is the most recent Last across all checkouts, or nil if no host
// has reported activity yet.
func (p Project) LatestAccess() *Epoch {
	var latest *Epoch
	for _, c := range p.Checkouts {
		if c.Last == nil {
			continue
		}
		if latest == nil || *c.Last > *latest {
			v := *c.Last
			latest = &v
		}
	}
	return latest
}

func (v *VersionInfo) HasVersion() bool {
	return v != nil && v.Version != nil && *v.Version != ""
}

func (e Epoch) Time() time.Time {
	return time.Unix(int64(e), 0).UTC()
}

// UnmarshalJSON accepts both 1700000000 and "1700000000"; the backend writes
// version_mtime as a string.
func (e *Epoch) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) >= 2 && b[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("epoch %s: %w", raw, err)
		}
		raw = unquoted
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("epoch %q: %w", raw, err)
	}
	if n < 0 {
		return fmt.Errorf("epoch %d: negative timestamp", n)
	}
	*e = Epoch(n)
	return nil
}

// EpochPtr is a convenience for building snapshots by hand.
func EpochPtr(n int64) *Epoch {
	e := Epoch(n)
	return &e
}

func StringPtr(s string) *string {
	return &s
}
