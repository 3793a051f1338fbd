/******************************************************************************
 *
 *  Description :
 *    Package exposes info, warning and error loggers.
 *
 *****************************************************************************/
package logs

import (
	"io"
	"log"
	"os"
	"strings"
)

// Loggers writing to stdout at the appropriate severity.
var (
	Info *log.Logger
	Warn *log.Logger
	Err  *log.Logger
)

func init() {
	// Default loggers, replaced when Init is called with the configured flags.
	Init(os.Stderr, "")
}

// Init initializes the loggers. The flags string is a comma-separated list
// of stdlib log flag names, i.e. "stdFlags,shortfile".
func Init(out io.Writer, flags string) {
	if out == nil {
		out = os.Stdout
	}

	logFlags := 0
	if flags == "" {
		logFlags = log.LstdFlags
	}
	for _, str := range strings.Split(flags, ",") {
		switch strings.TrimSpace(str) {
		case "stdFlags":
			logFlags |= log.LstdFlags
		case "date":
			logFlags |= log.Ldate
		case "time":
			logFlags |= log.Ltime
		case "microseconds":
			logFlags |= log.Lmicroseconds
		case "longfile":
			logFlags |= log.Llongfile
		case "shortfile":
			logFlags |= log.Lshortfile
		case "UTC":
			logFlags |= log.LUTC
		}
	}

	Info = log.New(out, "I", logFlags)
	Warn = log.New(out, "W", logFlags)
	Err = log.New(out, "E", logFlags)
}
