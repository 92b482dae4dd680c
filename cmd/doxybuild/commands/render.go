package commands

import (
	"fmt"

	"git.home.luguber.info/inful/doxybuild/internal/doxyfile"
)

// RenderCmd implements the 'render' command. It never touches the project tree
// unless --output is given.
type RenderCmd struct {
	Output string `short:"o" help:"Write the configuration to this file instead of stdout" type:"path"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, layout, err := root.LoadProject(nil)
	if err != nil {
		return err
	}

	content, err := doxyfile.Render(doxyfile.ParamsFor(cfg, layout))
	if err != nil {
		return err
	}
	if r.Output == "" {
		_, err = fmt.Fprint(g.stdout(), content)
		return err
	}
	if err := doxyfile.Write(r.Output, content); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.stdout(), "Generator config written to %s\n", r.Output)
	return nil
}
