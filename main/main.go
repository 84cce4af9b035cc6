package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
)

type CLI struct {
	Verbose int `short:"v" type:"counter" help:"Log verbosity (-v info, -vv debug)."`

	Encode EncodeCmd `cmd:"" help:"Pack integers and print them as hex."`
	Decode DecodeCmd `cmd:"" help:"Unpack hex varints and print the integers."`
	Zigzag ZigzagCmd `cmd:"" help:"Apply the zigzag mapping without packing."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bytepack"),
		kong.Description("Self-delimiting variable-length integer codec."),
		kong.UsageOnError(),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	err := ctx.Run(newLogger(os.Stderr, cli.Verbose))
	ctx.FatalIfErrorf(err)
}

func newLogger(w io.Writer, verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}
