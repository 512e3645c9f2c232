// Package misc keeps program identity which is set at build time.
package misc

var (
	// set by linker: -ldflags "-X pbc/misc.version=... -X pbc/misc.gitHash=..."
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name, which is used for logs and temporary files.
func GetAppName() string {
	return "pbc"
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
