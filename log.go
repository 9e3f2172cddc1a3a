package quizforge

import "log"

var verboseMode bool

// SetVerbose toggles verbose pipeline logging for the whole package.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// VerboseLog logs only when verbose mode is enabled.
func VerboseLog(format string, v ...interface{}) {
	if verboseMode {
		log.Printf(format, v...)
	}
}
