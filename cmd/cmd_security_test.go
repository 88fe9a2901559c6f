package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

func TestPipelineFlags_ValidateLeavesFeedURLToBuilder(t *testing.T) {
	for _, feedURL := range []string{"", "file:///etc/passwd", "http://192.168.1.1/feed"} {
		flags := &PipelineFlags{FeedURL: feedURL, Timeout: time.Second}
		assert.NoError(t, flags.Validate(), feedURL)
	}
}

func TestBuildCmd_RejectedFeedURLWritesDiagnostic(t *testing.T) {
	tests := []struct {
		name     string
		feedURL  string
		wantType model.ErrorType
	}{
		{name: "file scheme", feedURL: "file:///etc/passwd", wantType: model.ErrorTypeUnsupportedScheme},
		{name: "script scheme", feedURL: "javascript:alert('xss')", wantType: model.ErrorTypeUnsupportedScheme},
		{name: "not a URL", feedURL: "not-a-url-at-all", wantType: model.ErrorTypeUnsupportedScheme},
		{name: "empty", feedURL: "", wantType: model.ErrorTypeInvalidURL},
		{name: "localhost", feedURL: "http://localhost/feed", wantType: model.ErrorTypePrivateIP},
		{name: "private IP", feedURL: "http://192.168.1.1/feed", wantType: model.ErrorTypePrivateIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "feed.xml")
			flags := testFlags(tt.feedURL)
			flags.AllowPrivateIPs = false
			flags.NoEnrich = true
			var stdout bytes.Buffer
			c := &BuildCmd{PipelineFlags: flags, Output: output, stdout: &stdout}

			err := c.Run(&model.Globals{}, context.Background())
			require.Error(t, err)

			var feedErr *model.FeedError
			require.True(t, errors.As(err, &feedErr))
			assert.Equal(t, tt.wantType, feedErr.ErrorType)
			assert.Equal(t, "fetch_feed", feedErr.Operation)

			data, readErr := os.ReadFile(output)
			require.NoError(t, readErr)
			assert.Contains(t, string(data), `<error id="`+feedErr.ID+`" type="`+string(tt.wantType)+`"`)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestPipelineFlags_TimeoutMustBePositive(t *testing.T) {
	flags := &PipelineFlags{FeedURL: "https://example.com/feed"}
	if err := flags.Validate(); err == nil {
		t.Error("expected zero timeout to be rejected")
	}
}
