package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/jimm-operator/pkg/config"
	"github.com/canonical/jimm-operator/pkg/log"
	"github.com/canonical/jimm-operator/pkg/metrics"
	"github.com/canonical/jimm-operator/pkg/reconciler"
	"github.com/canonical/jimm-operator/pkg/relation"
	"github.com/canonical/jimm-operator/pkg/storage"
	"github.com/canonical/jimm-operator/pkg/trigger"
	"github.com/canonical/jimm-operator/pkg/workload"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jimm-operator",
	Short: "JIMM operator - workload convergence controller",
	Long: `jimm-operator keeps a managed JIMM workload converged with its
declared desired state: secret material, dashboard assets, the
declarative service layer and the running process itself.

It drives the workload through its supervisor's control socket and
retries convergence by trigger redelivery whenever the workload is
unreachable.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"jimm-operator version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the convergence controller",
	RunE: func(cmd *cobra.Command, args []string) error {
		socket, _ := cmd.Flags().GetString("socket")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		configPath, _ := cmd.Flags().GetString("config")
		bundlePath, _ := cmd.Flags().GetString("dashboard-bundle")
		leader, _ := cmd.Flags().GetBool("leader")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		statusInterval, _ := cmd.Flags().GetDuration("status-interval")
		logLevel, _ := cmd.Flags().GetString("log-level")
		logJSON, _ := cmd.Flags().GetBool("log-json")

		log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: logJSON})
		logger := log.WithComponent("main")

		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := storage.NewBoltStore(dataDir)
		if err != nil {
			return fmt.Errorf("failed to open state store: %w", err)
		}
		defer store.Close()

		// Desired configuration is re-read per pass so an updated file
		// takes effect on the next trigger. A read failure keeps the
		// last good copy.
		var current *config.Desired
		desired := func() *config.Desired {
			cfg, err := config.Load(configPath)
			if err != nil {
				logger.Error().Err(err).Msg("failed to reload configuration")
				if current == nil {
					cfg = &config.Desired{}
					cfg.ApplyDefaults()
					current = cfg
				}
				return current
			}
			current = cfg
			return cfg
		}

		rec := reconciler.New(reconciler.Config{
			Agent:      workload.NewClient(socket),
			Store:      store,
			Relations:  relation.NewMemory(),
			Desired:    desired,
			IsLeader:   func() bool { return leader },
			BundlePath: bundlePath,
		})

		dispatcher := trigger.NewDispatcher()
		rec.RegisterHandlers(dispatcher)
		dispatcher.Start()

		go func() {
			http.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(metricsAddr, nil); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()

		logger.Info().Str("socket", socket).Msg("starting convergence controller")
		dispatcher.Deliver(trigger.New(trigger.ConfigChanged))

		ticker := time.NewTicker(statusInterval)
		defer ticker.Stop()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case <-ticker.C:
				dispatcher.Deliver(trigger.New(trigger.StatusCheck))
			case sig := <-sigCh:
				logger.Info().Str("signal", sig.String()).Msg("shutting down")
				// Halt the delivery loop first, then run the final stop
				// synchronously: it must complete before the store closes.
				dispatcher.Stop()
				dispatcher.Dispatch(trigger.New(trigger.Stop))
				return nil
			}
		}
	},
}

func init() {
	runCmd.Flags().String("socket", "/var/run/jimm/supervisor.sock", "Workload supervisor control socket")
	runCmd.Flags().String("data-dir", "/var/lib/jimm-operator", "Directory for durable controller state")
	runCmd.Flags().String("config", "/etc/jimm-operator/config.yaml", "Desired configuration file")
	runCmd.Flags().String("dashboard-bundle", "", "Path to the dashboard asset bundle (optional)")
	runCmd.Flags().Bool("leader", false, "Run as the elected leader replica")
	runCmd.Flags().String("metrics-addr", ":9090", "Metrics listen address")
	runCmd.Flags().Duration("status-interval", 5*time.Minute, "Interval between status checks")
	runCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().Bool("log-json", false, "Log in JSON format")
}
