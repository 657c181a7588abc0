package commands

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnav/internal/diagram"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// DiagramCmd implements the 'diagram' command.
type DiagramCmd struct {
	Input      string `arg:"" default:"-" help:"Diagram source file (- for stdin)"`
	Output     string `short:"o" help:"Write SVG here instead of stdout"`
	ID         string `default:"mermaid-0" help:"Element id of the rendered SVG"`
	EngineConf string `name:"engine-config" help:"YAML or JSON file replacing diagram.engine" type:"existingfile"`
	Decode     bool   `help:"Percent-decode the source first, as sent by the browser component"`
}

func (c *DiagramCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	src, err := readInput(g, c.Input)
	if err != nil {
		return err
	}

	engineCfg := diagram.Config(cfg.Diagram.Engine)
	if c.EngineConf != "" {
		if engineCfg, err = loadEngineConfig(c.EngineConf); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	renderer := diagram.NewRenderer(diagram.NewMermaidCLIFromConfig(cfg.Diagram), diagram.Options{
		DefaultConfig: engineCfg,
	})
	svg, err := renderer.Render(ctx, diagram.Params{ID: c.ID, Code: string(src), Decode: &c.Decode})
	if err != nil {
		return err
	}
	return writeOutput(g, c.Output, []byte(svg))
}

func loadEngineConfig(path string) (diagram.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read engine config").
			WithContext("path", path).
			Build()
	}
	var cfg diagram.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid engine config").
			WithContext("path", path).
			Build()
	}
	if cfg == nil {
		cfg = diagram.Config{}
	}
	return cfg, nil
}
