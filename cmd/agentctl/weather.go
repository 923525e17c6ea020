package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agentprog/pkg/agentprog"
)

// weatherCmd runs the built-in window controller through both strategies so
// their outputs can be compared step by step.
func weatherCmd() *cobra.Command {
	var (
		lifetime   int
		maxEntries uint64
	)
	cmd := &cobra.Command{
		Use:   "weather <sunny|rainy>...",
		Short: "Run the window controller example as a reflex and as a history table",
		Long: "Run the window controller example as a reflex and as a history table.\n" +
			"The table covers histories up to --lifetime percepts (default: the number of percepts given);\n" +
			"later steps show not-found.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			percepts := make([]agentprog.Weather, 0, len(args))
			for _, arg := range args {
				w, err := agentprog.ParseWeather(arg)
				if err != nil {
					return err
				}
				percepts = append(percepts, w)
			}
			if lifetime == 0 {
				lifetime = len(percepts)
			}
			table, err := agentprog.WeatherTable(lifetime, maxEntries)
			if err != nil {
				return err
			}
			history, err := agentprog.NewTableDriven(table)
			if err != nil {
				return err
			}
			reflex := agentprog.WeatherReflex()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STEP\tPERCEPT\tREFLEX\tTABLE")
			for step, percept := range percepts {
				sensor := agentprog.SensorFunc[agentprog.Weather](func(context.Context) (agentprog.Weather, error) {
					return percept, nil
				})
				reflexAction, err := agentprog.Tick[agentprog.Weather, agentprog.Window](ctx, sensor, reflex, nil)
				if err != nil {
					return err
				}
				tableColumn := "not-found"
				tableAction, err := agentprog.Tick[agentprog.Weather, agentprog.Window](ctx, sensor, history, nil)
				switch {
				case err == nil:
					tableColumn = tableAction.String()
				case !errors.Is(err, agentprog.ErrNotFound):
					return err
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", step, percept, reflexAction, tableColumn)
			}
			fmt.Fprintf(tw, "table entries: %d\n", table.Len())
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&lifetime, "lifetime", 0, "longest history the table covers")
	cmd.Flags().Uint64Var(&maxEntries, "max-entries", agentprog.DefaultMaxEntries, "refuse tables larger than this")
	return cmd
}
