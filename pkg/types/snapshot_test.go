package types

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Shape written by the library server: info is a string map, last is a number.
const serverDoc = `{
  "library": {
    "3B60E5BE-C5CA-4D1B-A5C9-55E0F819A286": {
      "name": "projectx.fcpbundle",
      "info": {"version": "projectx_v12_final.mov", "version_mtime": "1700000500"},
      "checkouts": {
        "edit-bay-1": {"path": "/Volumes/Work/projectx.fcpbundle", "last": 1700000000},
        "edit-bay-2": {"path": "/Users/ed/projectx.fcpbundle", "last": 0}
      }
    },
    "0000": {"name": "scratch", "info": {}, "checkouts": {}}
  }
}`

func TestSnapshot_DecodesServerDocument(t *testing.T) {
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(serverDoc), &s))
	require.Len(t, s.Library, 2)

	p := s.Library["3B60E5BE-C5CA-4D1B-A5C9-55E0F819A286"]
	assert.Equal(t, "projectx.fcpbundle", p.Name)
	require.True(t, p.Info.HasVersion())
	assert.Equal(t, "projectx_v12_final.mov", *p.Info.Version)
	require.NotNil(t, p.Info.VersionMTime)
	assert.Equal(t, Epoch(1700000500), *p.Info.VersionMTime)
	assert.Equal(t, []string{"edit-bay-1", "edit-bay-2"}, p.Hosts())
	assert.Equal(t, Epoch(1700000000), *p.Checkouts["edit-bay-1"].Last)

	scratch := s.Library["0000"]
	assert.False(t, scratch.Info.HasVersion())
	assert.Empty(t, scratch.Checkouts)
	assert.Equal(t, []string{"0000", "3B60E5BE-C5CA-4D1B-A5C9-55E0F819A286"}, s.ProjectIDs())
}

func TestEpoch_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"negative", `{"path": "/a", "last": -5}`},
		{"word", `{"path": "/a", "last": "yesterday"}`},
		{"fraction", `{"path": "/a", "last": 1.5}`},
		{"bool", `{"path": "/a", "last": true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Checkout
			if err := json.Unmarshal([]byte(tc.in), &c); err == nil {
				t.Fatalf("expected error for %s, got %+v", tc.in, c)
			}
		})
	}
}

func TestEpoch_NullAndMissingStayAbsent(t *testing.T) {
	var a, b Checkout
	require.NoError(t, json.Unmarshal([]byte(`{"path": "/a", "last": null}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"path": "/a"}`), &b))
	assert.Nil(t, a.Last)
	assert.Nil(t, b.Last)
}

func TestProject_LatestAccess(t *testing.T) {
	p := Project{Checkouts: map[string]Checkout{
		"a": {Path: "/a", Last: EpochPtr(10)},
		"b": {Path: "/b"},
		"c": {Path: "/c", Last: EpochPtr(30)},
	}}
	require.NotNil(t, p.LatestAccess())
	assert.Equal(t, Epoch(30), *p.LatestAccess())

	// the result is a copy, not an alias into the snapshot
	*p.LatestAccess() = 99
	assert.Equal(t, Epoch(30), *p.Checkouts["c"].Last)

	assert.Nil(t, Project{Checkouts: map[string]Checkout{"b": {Path: "/b"}}}.LatestAccess())
}

func TestEmptySnapshot(t *testing.T) {
	s := EmptySnapshot()
	assert.NotNil(t, s.Library)
	assert.Empty(t, s.ProjectIDs())
}
