package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"kubemon/internal/cli"
	"kubemon/internal/config"
	"kubemon/internal/kube"
	"kubemon/internal/mock"
	"kubemon/internal/snapshot"
	"kubemon/internal/tui"
	"kubemon/pkg/logging"
)

var (
	flagMode       string
	flagMock       bool
	flagRefresh    float64
	flagNamespace  string
	flagKubeconfig string
	flagVerbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kubemon",
	Short: "Terminal dashboard for Kubernetes pods, nodes, and services",
	Long: `kubemon polls a Kubernetes cluster on a fixed interval and renders
pods, nodes, and services as tables, either as an interactive terminal
dashboard (--mode textual) or as one-shot / repeating dumps on stdout
(--mode cli). With --mock it runs against built-in demo data and needs
no cluster at all.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed connections)
	SilenceUsage: true,
	RunE:         runRoot,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kubemon version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.Flags().StringVar(&flagMode, "mode", "", "presenter mode: cli or textual (default cli)")
	rootCmd.Flags().BoolVar(&flagMock, "mock", false, "use built-in demo data instead of a cluster")
	rootCmd.Flags().Float64Var(&flagRefresh, "refresh", 0, "seconds between refreshes; 0 prints one snapshot and exits (default 5)")
	rootCmd.Flags().StringVarP(&flagNamespace, "namespace", "n", "", `namespace to monitor, or "all" (default "default")`)
	rootCmd.Flags().StringVar(&flagKubeconfig, "kubeconfig", "", "path to a kubeconfig file (default: standard loading rules)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	cfg = applyFlags(cmd, cfg)

	if cfg.Mode != config.ModeCLI && cfg.Mode != config.ModeTextual {
		return fmt.Errorf("invalid mode %q: must be %q or %q", cfg.Mode, config.ModeCLI, config.ModeTextual)
	}
	if cfg.RefreshSeconds != nil && *cfg.RefreshSeconds < 0 {
		return fmt.Errorf("invalid refresh interval %v: must be >= 0", *cfg.RefreshSeconds)
	}

	level := logging.LevelInfo
	if flagVerbose {
		level = logging.LevelDebug
	}
	if cfg.Mode == config.ModeTextual {
		// The alternate screen owns the terminal; logs go to a file.
		logging.InitForTUI(level)
	} else {
		logging.InitForCLI(level, os.Stderr)
	}
	defer logging.Close()

	var (
		source      snapshot.DataSource
		logs        tui.LogProvider
		contextName string
	)
	if flagMock {
		s := mock.NewSource()
		source, logs, contextName = s, s, "mock"
		logging.Info("cmd", "running against mock data")
	} else {
		client, err := kube.NewClient(flagKubeconfig)
		if err != nil {
			return fmt.Errorf("failed to connect to cluster: %w", err)
		}
		source, logs, contextName = client, client, client.Context()
	}

	loop := &snapshot.Loop{
		Source:       source,
		Namespace:    cfg.Namespace,
		Interval:     cfg.RefreshInterval(),
		FetchTimeout: cfg.RequestTimeout(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Mode == config.ModeTextual {
		err = tui.Run(ctx, loop, logs, contextName)
	} else {
		printer := cli.NewPrinter(cmd.OutOrStdout())
		// With a live interval the CLI repaints in place instead of scrolling.
		printer.ClearScreen = loop.Interval > 0
		err = loop.Run(ctx, printer.PrintCycle)
	}
	if isCleanShutdown(err) {
		return nil
	}
	return err
}

// isCleanShutdown reports whether err is the normal way out of a live run:
// cancellation between cycles, or the TUI program being torn down by a
// signal.
func isCleanShutdown(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, tea.ErrProgramKilled) ||
		errors.Is(err, tea.ErrInterrupted)
}

// applyFlags overlays explicitly set command-line flags on the file-derived
// configuration. Unset flags leave the file values alone.
func applyFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	if cmd.Flags().Changed("mode") {
		cfg.Mode = flagMode
	}
	if cmd.Flags().Changed("refresh") {
		refresh := flagRefresh
		cfg.RefreshSeconds = &refresh
	}
	if cmd.Flags().Changed("namespace") {
		cfg.Namespace = flagNamespace
	}
	return cfg
}
