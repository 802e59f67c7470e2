package tools

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

var isEnabled = true
var printTimestamp = true

func DisableLogger() {
	isEnabled = false
}

func EnableLoggerTimestamp() {
	printTimestamp = true
}

func DisableLoggerTimestamp() {
	printTimestamp = false
}

// Formats a progress message, prefixed with the current time when timestamps are enabled
func FormatLogLine(val ...interface{}) string {
	line := fmt.Sprintln(val...)
	line = line[:len(line)-1]
	if printTimestamp {
		return "[" + time.Now().Format("2006-01-02 15.04:05.000") + "] " + line
	}
	return line
}

// Logs progress messages unless the logger has been disabled with -silent
func LogOutput(val ...interface{}) {
	if isEnabled {
		glog.InfoDepth(1, FormatLogLine(val...))
	}
}
