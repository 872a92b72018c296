package sim

import (
	"io"
	"log"
)

// LogHookBase is embedded by hooks that turn hook invocations into log
// lines.
type LogHookBase struct {
	*log.Logger
}

// NewLogHookBase creates a base that writes bare lines, without the date
// prefix of the standard logger, to w.
func NewLogHookBase(w io.Writer) LogHookBase {
	return LogHookBase{Logger: log.New(w, "", 0)}
}
