// Package version holds build identity for the coursemind binaries.
package version

// Version is overridable at build time via -ldflags "-X ...version.Version=".
var Version = "0.1.0-dev"

// Name is the product name printed by --version.
const Name = "CourseMind"

// String returns the "<name> v<version>" line used by the CLI.
func String() string {
	return Name + " v" + Version
}
