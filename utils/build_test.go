package utils

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBuild(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.22.5",
		Main:      debug.Module{Path: "github.com/KYVENetwork/dlt-sink", Version: "v1.2.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	t.Run("from build info", func(t *testing.T) {
		build := newBuild("", "", info)
		assert.Equal(t, "v1.2.0", build.Version)
		assert.Equal(t, "0123456789ab-dirty", build.Commit)
		assert.Equal(t, "go1.22.5", build.GoVersion)
	})

	t.Run("link time values win", func(t *testing.T) {
		build := newBuild("v2.0.0", "cafe", info)
		assert.Equal(t, "v2.0.0", build.Version)
		assert.Equal(t, "cafe", build.Commit)
	})

	t.Run("development build", func(t *testing.T) {
		build := newBuild("", "", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, "local", build.Version)
		assert.Equal(t, "unknown", build.Commit)
		assert.NotEmpty(t, build.GoVersion)
	})

	t.Run("no build info", func(t *testing.T) {
		build := newBuild("", "", nil)
		assert.Equal(t, "local", build.Version)
		assert.NotEmpty(t, build.Platform)
	})
}
