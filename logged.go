package hpack

import (
	"io/ioutil"
	"log"
)

// logged is embedded by Decoder and Encoder to give both a wire-level trace
// logger that is silent until a caller opts in, mirroring the teacher's
// logged embed.
type logged struct {
	logger *log.Logger
}

func newLogged() logged {
	return logged{logger: log.New(ioutil.Discard, "", 0)}
}

// SetLogger directs wire-level tracing to logger. The Decoder traces
// reference-set toggles by indexed representations, table size updates and
// reference-set clears; the Encoder writes no trace lines.
func (l *logged) SetLogger(logger *log.Logger) {
	l.logger = logger
}

func (l *logged) logf(format string, args ...interface{}) {
	l.logger.Printf(format, args...)
}
