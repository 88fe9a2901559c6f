package model

import (
	"fmt"
	"time"
)

// Compiled-in defaults. Every one of them can be overridden from the command line.
const (
	DefaultFeedURL           = "https://www.cabletv.com/feed"
	DefaultLogoURL           = "https://i.ibb.co/sptKgp34/CTV-Feed-Logo.png" // 700x100 PNG
	DefaultMaxLinks          = 12
	DefaultOutputPath        = "dist/feed-smartnews.xml"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultBurstCapacity     = 5
	DefaultAnalytics         = "\n  <!-- Place GA4/analytics script here if desired (no iframes). -->\n"

	builderName = "SmartNews-Feed-Builder"
	builderHome = "https://CTV-Clearlink.github.io"
)

// UserAgent returns the User-Agent sent with every request for the given build version.
func UserAgent(version string) string {
	return fmt.Sprintf("Mozilla/5.0 (compatible; %s/%s; +%s)", builderName, version, builderHome)
}
