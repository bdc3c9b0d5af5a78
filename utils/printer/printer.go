package printer

import (
	"fmt"
	_ "runtime" // import link package
	_ "unsafe"  // required by go:linkname

	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Version information, filled by -ldflags at build time.
var (
	BuildTS   = "None"
	GitHash   = "None"
	GitBranch = "None"
)

//go:linkname buildVersion runtime.buildVersion
var buildVersion string

// PrintInfo logs the version information.
func PrintInfo() {
	log.Info("Welcome to ora-monitoring.",
		zap.String("Git Commit Hash", GitHash),
		zap.String("Git Branch", GitBranch),
		zap.String("UTC Build Time", BuildTS),
		zap.String("GoVersion", buildVersion))
}

func GetInfo() string {
	return fmt.Sprintf("Git Commit Hash: %s\n"+
		"Git Branch: %s\n"+
		"UTC Build Time: %s\n"+
		"GoVersion: %s",
		GitHash,
		GitBranch,
		BuildTS,
		buildVersion)
}
