package main

import (
	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// astiavLogLevel and logLevelFromAstiav bridge this module's logger
// level to astiav's, so FFmpeg's own log output rides the same level
// filter and sink as everything else.
func astiavLogLevel(l logger.Level) astiav.LogLevel {
	switch l {
	case logger.LevelTrace, logger.LevelDebug:
		return astiav.LogLevelDebug
	case logger.LevelInfo:
		return astiav.LogLevelInfo
	case logger.LevelWarning:
		return astiav.LogLevelWarning
	case logger.LevelError:
		return astiav.LogLevelError
	default:
		return astiav.LogLevelQuiet
	}
}

func logLevelFromAstiav(l astiav.LogLevel) logger.Level {
	switch l {
	case astiav.LogLevelDebug:
		return logger.LevelDebug
	case astiav.LogLevelInfo:
		return logger.LevelInfo
	case astiav.LogLevelWarning:
		return logger.LevelWarning
	case astiav.LogLevelError:
		return logger.LevelError
	default:
		return logger.LevelWarning
	}
}
