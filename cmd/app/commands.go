package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
	"github.com/yanqian/celestial-scale/internal/domain/weighin"
	"github.com/yanqian/celestial-scale/internal/infra/config"
	"github.com/yanqian/celestial-scale/pkg/logger"
)

// catalogLoader is swapped in tests to avoid reading config from the environment.
var catalogLoader = func(cmd *cobra.Command) (*bodies.Catalog, error) {
	cfg, err := config.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return provideCatalog(cfg, logger.NewWithWriter(cmd.ErrOrStderr(), "warn"))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "celestial",
		Short: "Your weight and age across the Solar System",
		Long: `Celestial scale serves a page that shows how much a visitor would weigh
and how old they would be on other bodies of the Solar System.

Examples:
  celestial serve
  celestial bodies
  celestial compute --name Ana --age 30 --weight 70`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newBodiesCmd(), newComputeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := initializeApp()
			if err != nil {
				return fmt.Errorf("failed to wire application: %w", err)
			}
			if err := app.Run(ctx); err != nil {
				return fmt.Errorf("application stopped with error: %w", err)
			}
			return nil
		},
	}
}

func newBodiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "bodies",
		Aliases: []string{"ls"},
		Short:   "List the celestial bodies and their ratios",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := catalogLoader(cmd)
			if err != nil {
				return err
			}
			writeBodies(cmd.OutOrStdout(), catalog.AllBodies())
			return nil
		},
	}
}

func newComputeCmd() *cobra.Command {
	var name, age, weight string
	cmd := &cobra.Command{
		Use:   "compute --name <name> --age <years> --weight <kg>",
		Short: "Print the weight and age on every body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := weighin.ParseInput(name, age, weight)
			if err != nil {
				return err
			}
			catalog, err := catalogLoader(cmd)
			if err != nil {
				return err
			}
			results, err := weighin.DeriveChecked(in, catalog)
			if err != nil {
				return err
			}
			writeResults(cmd.OutOrStdout(), in, catalog, results)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "visitor name")
	cmd.Flags().StringVar(&age, "age", "", "age in Earth years")
	cmd.Flags().StringVar(&weight, "weight", "", "weight in kg on Earth")
	return cmd
}

func writeBodies(w io.Writer, records []bodies.BodyRecord) {
	faint := color.New(color.Faint)
	for _, rec := range records {
		year := faint.Sprint("n/a")
		if rec.YearLengthDays != nil {
			year = fmt.Sprintf("%.1f days", *rec.YearLengthDays)
		}
		fmt.Fprintf(w, "%s x%-7.3f %s\n", color.GreenString("%-10s", rec.ID), rec.GravityFactor, year)
	}
}

func writeResults(w io.Writer, in weighin.ValidatedInput, catalog *bodies.Catalog, results []weighin.DerivedResult) {
	fmt.Fprintf(w, "%s, here is how you measure up:\n", color.New(color.Bold).Sprint(in.Name))
	for _, res := range results {
		age := res.RelativeAge.String()
		if !res.RelativeAge.Applicable {
			age = color.New(color.Faint).Sprint(age)
		}
		line := fmt.Sprintf("%s %s kg  %s years", color.CyanString("%-10s", res.BodyID), color.YellowString("%10s", res.WeightText()), age)
		if body, err := catalog.Lookup(res.BodyID); err == nil {
			line += color.New(color.Faint).Sprintf("  (%s)", body.Gravity)
		}
		fmt.Fprintln(w, line)
	}
}
