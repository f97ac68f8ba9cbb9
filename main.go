package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/takeoutdate/cmd"
	"github.com/lepinkainen/takeoutdate/types"
)

var Version = "dev"

type CLI struct {
	Fix     cmd.FixCmd       `cmd:"" default:"withargs" help:"Restore capture times from sidecar metadata (default)"`
	Scan    cmd.ScanCmd      `cmd:"" help:"Count media files that lack an embedded capture time"`
	Locate  cmd.LocateCmd    `cmd:"" help:"Show which sidecar each media file resolves to"`
	Version kong.VersionFlag `help:"Print version and exit"`
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("takeoutdate"),
		kong.Description("Restore photo and video capture times from an archive export."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(&types.AppContext{Version: Version, Out: os.Stdout, Err: os.Stderr})
	ctx.FatalIfErrorf(err)
}
