package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docnav/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (c *InitCmd) Run(g *Global, root *CLI) error {
	if err := config.Init(root.Config, c.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Stdout, "Configuration written to %s\n", root.Config)
	return nil
}
