package app

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// InitLogger writes JSON lines in production and a console format elsewhere.
func InitLogger(levelStr, environment string) zerolog.Logger {
	return newLogger(os.Stdout, levelStr, environment == "prod")
}

func newLogger(out io.Writer, levelStr string, structured bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !structured {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    out != os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	return zerolog.New(out).With().
		Timestamp().
		Str("app", "quickpoll").
		Logger()
}
