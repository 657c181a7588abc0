package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnav/cmd/docnav/commands"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := commands.NewGlobal()
	parser := kong.Parse(cli,
		kong.Name("docnav"),
		kong.Description("Generate navigation and sidebar configuration for a markdown documentation site."),
		kong.UsageOnError(),
		kong.Bind(global),
		kong.Vars{"version": version.String()},
	)
	err := parser.Run(global, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
