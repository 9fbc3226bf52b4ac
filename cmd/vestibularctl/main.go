package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/num/quat"

	"vestibular/internal/config"
	"vestibular/internal/logging"
	"vestibular/internal/orientation"
	"vestibular/internal/storage"
	"vestibular/pkg/vestibular"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCommand(stdin, stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

type storeFlags struct {
	kind   string
	dbPath string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "store", "", "store backend: memory|sqlite (default from config or build)")
	cmd.Flags().StringVar(&f.dbPath, "db-path", "", "sqlite database path")
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "vestibularctl",
		Short:         "Simulate and inspect vestibular sensor episodes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newRunCommand(),
		newDecodeCommand(),
		newEulerCommand(),
		newEpisodesCommand(),
		newShowCommand(),
	)
	return root
}

func newRunCommand() *cobra.Command {
	var (
		configPath string
		logLevel   string
		stores     storeFlags
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one episode and write sensor reports to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if stores.kind != "" {
				cfg.Store = stores.kind
			}
			if stores.dbPath != "" {
				cfg.DBPath = stores.dbPath
			}

			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			client, err := vestibular.New(vestibular.Options{StoreKind: cfg.Store, DBPath: cfg.DBPath, Logger: logger})
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			summary, err := client.Run(cmd.Context(), cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "episode=%s steps=%d sensors=%v\n", summary.EpisodeID, summary.Steps, summary.SensorIDs)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "episode config path (YAML or JSON)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	stores.register(cmd)
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newDecodeCommand() *cobra.Command {
	var (
		euler bool
		dt    float64
	)
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode sensor report lines read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := vestibular.DecodeReports(cmd.InOrStdin(), dt)
			if err != nil {
				return err
			}
			return printReports(cmd.OutOrStdout(), reports, euler)
		},
	}
	cmd.Flags().BoolVar(&euler, "euler", false, "also print roll/pitch/yaw in degrees")
	cmd.Flags().Float64Var(&dt, "dt", 0, "step duration in seconds used for the time column (0 prints step index)")
	return cmd
}

func newEulerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "euler w x y z",
		Short: "Convert a unit quaternion to roll/pitch/yaw in degrees",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v [4]float64
			for i, raw := range args {
				f, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("component %d: %w", i, err)
				}
				v[i] = f
			}
			e := orientation.ToEuler(quat.Number{Real: v[0], Imag: v[1], Jmag: v[2], Kmag: v[3]}).Degrees()
			fmt.Fprintf(cmd.OutOrStdout(), "roll=%.6f pitch=%.6f yaw=%.6f\n", e.Roll, e.Pitch, e.Yaw)
			return nil
		},
	}
}

func newEpisodesCommand() *cobra.Command {
	var (
		limit  int
		stores storeFlags
	)
	cmd := &cobra.Command{
		Use:   "episodes",
		Short: "List persisted episodes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(stores)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			items, err := client.Episodes(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EPISODE\tCREATED\tSTEPS\tDT\tSENSORS")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%g\t%v\n", item.EpisodeID, item.CreatedAtUTC, item.EvalPeriod, item.DT, item.SensorIDs)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum episodes to list (0 lists all)")
	stores.register(cmd)
	return cmd
}

func newShowCommand() *cobra.Command {
	var (
		euler  bool
		stores storeFlags
	)
	cmd := &cobra.Command{
		Use:   "show <episode-id>",
		Short: "Print the persisted series of one episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(stores)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			reports, err := client.Episode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printReports(cmd.OutOrStdout(), reports, euler)
		},
	}
	cmd.Flags().BoolVar(&euler, "euler", false, "also print roll/pitch/yaw in degrees")
	stores.register(cmd)
	return cmd
}

func newClient(stores storeFlags) (*vestibular.Client, error) {
	kind := stores.kind
	if kind == "" {
		kind = storage.DefaultStoreKind()
	}
	return vestibular.New(vestibular.Options{StoreKind: kind, DBPath: stores.dbPath})
}

func printReports(w io.Writer, reports []vestibular.SensorReport, euler bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "SENSOR\tT\tW\tX\tY\tZ"
	if euler {
		header += "\tROLL\tPITCH\tYAW"
	}
	fmt.Fprintln(tw, header)
	for _, r := range reports {
		for _, f := range r.Frames {
			fmt.Fprintf(tw, "%d\t%g\t%.6f\t%.6f\t%.6f\t%.6f", r.SensorID, f.T, f.W, f.X, f.Y, f.Z)
			if euler {
				fmt.Fprintf(tw, "\t%.3f\t%.3f\t%.3f", f.Roll, f.Pitch, f.Yaw)
			}
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}
