package kepler

import (
	"io"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// NewLogger returns a logfmt logger writing to w and filtering out records below lvl
// (debug, info, warn, error or none).
func NewLogger(w io.Writer, lvl string) (kitlog.Logger, error) {
	opt, err := levelOption(lvl)
	if err != nil {
		return nil, err
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	klog = level.NewFilter(klog, opt)
	return kitlog.With(klog, "subsys", "kepler"), nil
}

func levelOption(lvl string) (level.Option, error) {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "", "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	}
	return nil, invalid("log.level", "unknown level %q", lvl)
}
