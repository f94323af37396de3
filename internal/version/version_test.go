package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromSettings(t *testing.T) {
	tests := []struct {
		name        string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{
			name:     "no vcs info",
			settings: nil,
		},
		{
			name: "clean checkout",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2024-03-09T10:00:00Z"},
				{Key: "vcs.modified", Value: "false"},
			},
			wantVersion: "dev-20240309",
			wantCommit:  "0123456",
		},
		{
			name: "dirty short revision",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
				{Key: "vcs.time", Value: "not a time"},
			},
			wantCommit: "abc-dirty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := fromSettings(tt.settings)
			if v != tt.wantVersion || c != tt.wantCommit {
				t.Errorf("fromSettings() = %q, %q, want %q, %q", v, c, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestFullAndDetails(t *testing.T) {
	if Version == "" || Commit == "" {
		t.Fatal("init should always populate Version and Commit")
	}
	if !strings.Contains(Full(), Commit) {
		t.Errorf("Full() = %q, want commit %q", Full(), Commit)
	}
	d := Details()
	for _, key := range []string{"Version", "Commit", "Go", "Platform"} {
		if d[key] == "" {
			t.Errorf("Details()[%q] is empty", key)
		}
	}
}
