package model

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// VersionFlag prints the build version and the User-Agent it sends, then exits.
type VersionFlag string

// versionOut is where BeforeApply writes; swapped in tests.
var versionOut io.Writer = os.Stdout

// Decode implements kong.MapperValue; the flag carries no value.
func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }

// IsBool implements kong.BoolMapper.
func (v VersionFlag) IsBool() bool { return true }

// BeforeApply prints before any command runs.
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Fprintln(versionOut, vars["version"])
	if ua := vars["user_agent"]; ua != "" {
		fmt.Fprintf(versionOut, "User-Agent: %s\n", ua)
	}
	app.Exit(0)
	return nil
}
