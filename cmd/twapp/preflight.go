package main

import (
	"context"

	"github.com/tidewaterhq/twapp/cmd/internal/bincheck"
	"github.com/tidewaterhq/twapp/cmd/internal/dag"
	"github.com/tidewaterhq/twapp/cmd/internal/tool"
	"github.com/tidewaterhq/twapp/cmd/internal/wscfg"
)

type PreflightCmd struct{}

func (c *PreflightCmd) Run(cfg *wscfg.Config, reg *tool.Registry) error {
	ctx := tool.WithBinChecker(context.Background(), bincheck.NewChecker())
	g, err := dag.Build(cfg.Projects, reg, cfg, tool.PreflightSteps)
	if err != nil {
		return err
	}
	return dag.Execute(ctx, g, cliReporter{})
}
