package main

import (
	"context"

	"github.com/tidewaterhq/twapp/cmd/internal/dag"
	"github.com/tidewaterhq/twapp/cmd/internal/tool"
	"github.com/tidewaterhq/twapp/cmd/internal/wscfg"
)

type GenCmd struct{}

func (c *GenCmd) Run(cfg *wscfg.Config, reg *tool.Registry) error {
	ctx := context.Background()
	g, err := dag.Build(cfg.Projects, reg, cfg, []tool.Step{tool.StepGen})
	if err != nil {
		return err
	}
	return dag.Execute(ctx, g, cliReporter{})
}
