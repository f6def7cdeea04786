package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-optimizer/internal/config"
	"github.com/rxtech-lab/argo-optimizer/internal/datasource"
	"github.com/rxtech-lab/argo-optimizer/internal/logger"
	"github.com/rxtech-lab/argo-optimizer/internal/strategy"
	"github.com/urfave/cli/v3"
)

// dependencies are the collaborators the commands are built on.
type dependencies struct {
	newSource func(log *logger.Logger) (datasource.PriceSource, error)
	registry  strategy.Registry
}

func defaultDependencies() dependencies {
	return dependencies{
		newSource: datasource.NewDuckDBSource,
		registry:  strategy.NewDefaultRegistry(),
	}
}

func newApp() *cli.Command {
	return newAppWith(defaultDependencies())
}

func newAppWith(deps dependencies) *cli.Command {
	return &cli.Command{
		Name:  "argo-optimizer",
		Usage: "Sweep a two-parameter trading strategy over historical prices",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a parameter sweep described by a config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the optimizer config `FILE`",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "metric",
						Aliases: []string{"m"},
						Usage:   "Metric matrix to print (e.g. annual_return, sharpe_ratio). Can be repeated.",
						Value:   defaultMetrics,
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Overrides log_level from the config file (debug, info, warn, error)",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Do not draw the progress bar",
					},
				},
				Action: deps.runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
			{
				Name:   "strategies",
				Usage:  "List the available strategies",
				Action: deps.strategiesAction,
			},
		},
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	cfg := config.DefaultConfig()

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

func (d dependencies) strategiesAction(_ context.Context, cmd *cli.Command) error {
	for _, name := range d.registry.Names() {
		if _, err := fmt.Fprintln(cmd.Root().Writer, name); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
