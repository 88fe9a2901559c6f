package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_LinkerValues(t *testing.T) {
	oldV, oldC, oldD := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = oldV, oldC, oldD })

	Version, GitCommit, BuildDate = "v1.4.0", "abc1234", "2025-01-02"

	info := Get()
	assert.Equal(t, "1.4.0", info.Version)
	assert.Equal(t, "1.4.0-abc1234", GetFullVersion())
	assert.True(t, strings.HasPrefix(info.String(), "smartnews-feed 1.4.0 (commit abc1234"))
}

func TestFromBuildInfo(t *testing.T) {
	info := Info{Version: "dev", GitCommit: unknown, BuildDate: unknown}
	fromBuildInfo(&info, &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2025-06-01T00:00:00Z"},
		},
	})

	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "0123456", info.GitCommit)
	assert.Equal(t, "2025-06-01T00:00:00Z", info.BuildDate)
}
