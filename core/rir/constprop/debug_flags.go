package constprop

import (
	"os"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Package-wide debug switch for verbose pass logging. Off by default so the
// pass stays silent inside compile pipelines unless explicitly enabled.
var DebugLogsEnabled = false

func init() {
	if os.Getenv("RIR_DEBUG") == "1" || os.Getenv("RIR_DEBUG") == "true" {
		DebugLogsEnabled = true
	}
}

// EnableDebugLogs toggles verbose constant-propagation logging.
func EnableDebugLogs(on bool) { DebugLogsEnabled = on }

func debugLog(msg string, ctx ...interface{}) {
	if DebugLogsEnabled {
		ethlog.Debug(msg, ctx...)
	}
}
