package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

type cli struct {
	Serve    serveCmd    `cmd:"" default:"1" help:"Serve the dashboard over HTTP."`
	Snapshot snapshotCmd `cmd:"" help:"Print one generated dashboard snapshot."`
}

func newParser(ctx context.Context, stdout io.Writer, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("dashboard"),
		kong.Description("Live analytics dashboard with simulated data."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(stdout, (*io.Writer)(nil)),
	}, options...)
	return kong.New(&cli{}, options...)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	parser, err := newParser(ctx, stdout)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run()
}

func main() {
	parser, err := newParser(context.Background(), os.Stdout)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	parser.FatalIfErrorf(kctx.Run())
}
