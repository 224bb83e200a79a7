// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// SetDefaultLogger sets the default logger to be a colored text
// handler on [os.Stderr] that only shows messages at or above [UserLevel].
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr)))
}

// NewHandler returns a new [slog.TextHandler] writing to the given
// writer, omitting the time and coloring the level name when
// the writer is a color capable terminal.
func NewHandler(w io.Writer) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: userLeveler{},
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				lvl, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}
				a.Value = slog.StringValue(LevelString(out, lvl))
			}
			return a
		},
	})
}

// LevelString returns the name of the given level, colored for
// the given output: debug is gray, info is blue, warn is yellow,
// and error is red.
func LevelString(out *termenv.Output, lvl slog.Level) string {
	if out.Profile == termenv.Ascii {
		return lvl.String()
	}
	var c termenv.Color
	switch {
	case lvl >= slog.LevelError:
		c = out.Color("1")
	case lvl >= slog.LevelWarn:
		c = out.Color("3")
	case lvl >= slog.LevelInfo:
		c = out.Color("4")
	default:
		c = out.Color("8")
	}
	return out.String(lvl.String()).Foreground(c).Bold().String()
}
