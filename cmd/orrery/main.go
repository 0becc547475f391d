package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/hierarchy"
	"github.com/san-kum/orrery/internal/logging"
)

var (
	configFile string
	dataDir    string
	verbose    bool
	envFile    string

	// live, view
	watchFile bool
	theme     string
	view      string

	// dump
	atTime  float64
	jsonOut bool

	// record
	dt       float64
	duration float64
	start    float64

	// plot, analyze
	bodyID int

	// export
	outFile string

	cfg *config.Config
	log *zap.Logger
)

// sceneArg accepts exactly one hierarchy file with the .sol suffix.
func sceneArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one %s file, got %d arguments", hierarchy.Extension, len(args))
	}
	return hierarchy.CheckExtension(args[0])
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg = config.DefaultConfig()
	if configFile != "" {
		if cfg, err = config.Load(configFile); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := config.LoadEnv(envFile); err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = dataDir
	}

	log, err = logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return err
	}
	log.Debug("configuration loaded", zap.String("config", configFile), zap.String("data", cfg.DataDir))
	return nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orrery <file.sol>",
		Short: "animated solar system from a hierarchy file",
		Long: "orrery reads a tab-indented .sol hierarchy of a star and its planets\n" +
			"and animates every body orbiting its parent. Without a subcommand the\n" +
			"scene opens in a window.",
		Args:              sceneArg,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
		RunE:          runView,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for recorded runs")
	pf.StringVar(&envFile, "env", ".env", "dotenv file with ORRERY_* overrides")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	viewCmd := &cobra.Command{
		Use:   "view <file.sol>",
		Short: "render the scene in a window",
		Args:  sceneArg,
		RunE:  runView,
	}
	viewCmd.Flags().BoolVar(&watchFile, "watch", false, "reload when the file changes")

	liveCmd := &cobra.Command{
		Use:   "live <file.sol>",
		Short: "render the scene in the terminal",
		Args:  sceneArg,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&watchFile, "watch", false, "reload when the file changes")
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme")
	liveCmd.Flags().StringVar(&view, "view", "", "camera preset (top, edge, oblique, close)")

	validateCmd := &cobra.Command{
		Use:   "validate <file.sol>",
		Short: "parse the file and print its hierarchy",
		Args:  sceneArg,
		RunE:  runValidate,
	}

	dumpCmd := &cobra.Command{
		Use:   "dump <file.sol>",
		Short: "print every body's world position at a time",
		Args:  sceneArg,
		RunE:  runDump,
	}
	dumpCmd.Flags().Float64Var(&atTime, "time", 0, "simulation time")
	dumpCmd.Flags().BoolVar(&jsonOut, "json", false, "JSON output")

	recordCmd := &cobra.Command{
		Use:   "record <file.sol>",
		Short: "sample body positions and store a run",
		Args:  sceneArg,
		RunE:  runRecord,
	}
	recordCmd.Flags().Float64Var(&dt, "dt", config.DefaultRecordDt, "sample interval")
	recordCmd.Flags().Float64Var(&duration, "duration", config.DefaultDuration, "simulation time to cover")
	recordCmd.Flags().Float64Var(&start, "start", 0, "first sample time")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot <run_id>",
		Short: "plot a body's coordinates from a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bodyID, "body", 1, "body id")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <run_id>",
		Short: "estimate a body's orbital period from a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyID, "body", 1, "body id")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg <run_id>",
		Short: "export orbit paths of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json <run_id>",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.json)")

	rootCmd.AddCommand(viewCmd, liveCmd, validateCmd, dumpCmd, recordCmd, listCmd, plotCmd, analyzeCmd, exportSVGCmd, exportJSONCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "orrery:", err)
		os.Exit(1)
	}
}
