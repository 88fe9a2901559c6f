package model

// Globals contains global flags for the CLI.
type Globals struct {
	Version  VersionFlag `name:"version" help:"Print version information and quit"`
	Debug    bool        `name:"debug" env:"SNF_FEED_DEBUG" help:"Enable diagnostic logging to stderr."`
	LogLevel string      `name:"log-level" env:"SNF_FEED_LOG_LEVEL" enum:"error,warn,info,debug" default:"info" help:"Minimum log level (error, warn, info, debug)."`
	JSONLogs bool        `name:"json-logs" env:"SNF_FEED_JSON_LOGS" help:"Emit logs as JSON lines."`
}

// ApplyLogging pushes the logging flags into the default logger.
func (g *Globals) ApplyLogging() {
	ConfigureLogging(g.Debug, g.LogLevel, g.JSONLogs)
}
