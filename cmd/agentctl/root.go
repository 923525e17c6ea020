package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"agentprog/internal/symbol"
	"agentprog/pkg/agentprog"
)

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "agentctl",
		Short:         "Store agent program tables and replay percepts through them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.storeKind, "store", "", "store backend: memory|sqlite (env "+envStore+")")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db-path", "", "sqlite database path (env "+envDBPath+")")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with default settings")

	cmd.AddCommand(importCmd(opts))
	cmd.AddCommand(tablesCmd(opts))
	cmd.AddCommand(showCmd(opts))
	cmd.AddCommand(runCmd(opts))
	cmd.AddCommand(episodesCmd(opts))
	cmd.AddCommand(sizeCmd())
	cmd.AddCommand(buildCmd(opts))
	cmd.AddCommand(weatherCmd())
	return cmd
}

// withClient opens and initializes a client for the duration of fn.
func withClient(cmd *cobra.Command, opts *globalOptions, reg prometheus.Registerer, fn func(context.Context, *agentprog.Client) error) error {
	client, err := opts.newClient(cmd.ErrOrStderr(), reg)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := client.Init(ctx); err != nil {
		return err
	}
	return fn(ctx, client)
}

func importCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>...",
		Short: "Validate and store table or reflex documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, nil, func(ctx context.Context, client *agentprog.Client) error {
				for _, path := range args {
					summary, err := client.ImportTable(ctx, path)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "imported %s kind=%s entries=%d rules=%d\n", summary.Name, summary.Kind, summary.Entries, summary.Rules)
				}
				return nil
			})
		},
	}
}

func tablesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List stored tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, opts, nil, func(ctx context.Context, client *agentprog.Client) error {
				tables, err := client.Tables(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tKIND\tPERCEPTS\tENTRIES\tRULES")
				for _, t := range tables {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", t.Name, t.Kind, strings.Join(t.Percepts, ","), t.Entries, t.Rules)
				}
				return tw.Flush()
			})
		},
	}
}

func showCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored table as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, nil, func(ctx context.Context, client *agentprog.Client) error {
				data, err := client.ExportTable(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
}

func runCmd(opts *globalOptions) *cobra.Command {
	var (
		file        string
		showMetrics bool
	)
	cmd := &cobra.Command{
		Use:   "run <name> <percept>...",
		Short: "Replay percepts through a stored program, one action per line",
		Long: "Replay percepts through a stored program, one action per line.\n" +
			"The replay stops at the first percept history missing from a lookup table.\n" +
			"With the memory store, pass --file to import the document in the same process.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			return withClient(cmd, opts, reg, func(ctx context.Context, client *agentprog.Client) error {
				if file != "" {
					if _, err := client.ImportTable(ctx, file); err != nil {
						return err
					}
				}
				summary, runErr := client.Run(ctx, agentprog.RunRequest{Table: args[0], Percepts: args[1:]})
				out := cmd.OutOrStdout()
				for _, action := range summary.Actions {
					fmt.Fprintln(out, action)
				}
				if showMetrics {
					if err := writeMetrics(out, reg); err != nil {
						return err
					}
				}
				if errors.Is(runErr, agentprog.ErrNotFound) {
					return fmt.Errorf("episode %s: step %d: %w", summary.EpisodeID, summary.FailedStep, runErr)
				}
				return runErr
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "import this document before running")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print agent metrics after the run")
	return cmd
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}

func episodesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "episodes [name]",
		Short: "List stored episodes, optionally for one table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := ""
			if len(args) == 1 {
				table = args[0]
			}
			return withClient(cmd, opts, nil, func(ctx context.Context, client *agentprog.Client) error {
				episodes, err := client.Episodes(ctx, table)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTABLE\tOUTCOME\tSTEPS\tPERCEPTS")
				for _, e := range episodes {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.ID, e.Table, e.Outcome, len(e.Actions), strings.Join(e.Percepts, ","))
				}
				return tw.Flush()
			})
		},
	}
}

func sizeCmd() *cobra.Command {
	var percepts, lifetime int
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Print the entry count of a complete table: sum of percepts^t for t=1..lifetime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if percepts <= 0 || lifetime <= 0 {
				return errors.New("--percepts and --lifetime must be > 0")
			}
			size := agentprog.TableSize(percepts, lifetime)
			fmt.Fprintln(cmd.OutOrStdout(), size.String())
			if size.Cmp(big.NewInt(agentprog.DefaultMaxEntries)) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: exceeds the default build limit of %d entries\n", agentprog.DefaultMaxEntries)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&percepts, "percepts", 0, "number of distinct percepts")
	cmd.Flags().IntVar(&lifetime, "lifetime", 0, "number of percepts the agent will receive")
	return cmd
}

func buildCmd(opts *globalOptions) *cobra.Command {
	var (
		req      agentprog.BuildRequest
		percepts string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Enumerate and store a complete table for a finite lifetime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Percepts = symbol.Split(percepts)
			return withClient(cmd, opts, nil, func(ctx context.Context, client *agentprog.Client) error {
				summary, err := client.BuildTable(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "built %s entries=%d\n", summary.Name, summary.Entries)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "table name")
	cmd.Flags().StringVar(&percepts, "percepts", "", "comma separated percept alphabet (default: the --from-rules alphabet)")
	cmd.Flags().IntVar(&req.Lifetime, "lifetime", 0, "longest history the table covers")
	cmd.Flags().StringVar(&req.Action, "action", "", "action for every entry")
	cmd.Flags().StringVar(&req.FromRules, "from-rules", "", "stored reflex document choosing each entry's action")
	cmd.Flags().Uint64Var(&req.MaxEntries, "max-entries", agentprog.DefaultMaxEntries, "refuse tables larger than this")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("lifetime")
	return cmd
}
