package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"brewboxes/internal/app"
	"brewboxes/internal/config"
	brewerrors "brewboxes/internal/errors"
	"brewboxes/internal/metrics"
	"brewboxes/internal/progress"
	"brewboxes/internal/server"
	"brewboxes/internal/ui"
	"brewboxes/pkg/desktop"
)

// version is set at build time via ldflags
var version = "dev"

const shutdownTimeout = 10 * time.Second

var (
	configFile string
	logLevel   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "brewboxes",
	Short:   "Brewboxes - on-demand desktop containers in the browser",
	Version: version,
	Long: `Brewboxes builds and runs browser-accessible Linux desktop containers
(a distribution plus a desktop environment) on the local podman or docker engine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		level, err := parseLevel(loaded.Log.Level)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		config.ExtendPath(loaded.Engine.SearchPaths)
		cfg = loaded
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Serve exposes launch (server-sent events), stop, delete, container listing,
health and Prometheus metrics endpoints until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Server.Listen = listen
		}

		registry := prom.NewRegistry()
		recorder := metrics.NewPrometheusRecorder(registry)
		services := app.NewServices(cfg, recorder)
		defer services.Close()

		deps := server.Dependencies{
			App:     services.Orchestrator,
			Engines: services.Detector,
			Metrics: recorder.Handler(),
		}
		if services.Inventory != nil {
			deps.Inventory = services.Inventory
		}
		srv := server.New(cfg.Server, deps)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			if err != nil {
				brewerrors.HandleError(brewerrors.NewNetworkError(
					"Failed to start HTTP server",
					fmt.Sprintf("could not listen on %s", cfg.Server.Listen),
					"Choose another address with --listen or server.listen",
					err,
				))
				os.Exit(1)
			}
		case <-ctx.Done():
			slog.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("HTTP server shutdown incomplete", "error", err)
			}
		}
	},
}

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Build and start a desktop container",
	Long: `Launch runs the full pipeline in-process: detect the engine, tag the desktop
image, allocate ports and start the container, printing progress as it goes.`,
	Run: func(cmd *cobra.Command, args []string) {
		distro, _ := cmd.Flags().GetString("distro")
		gui, _ := cmd.Flags().GetString("gui")

		services := app.NewServices(cfg, nil)
		defer services.Close()

		console := ui.NewConsole()
		_, err := services.Orchestrator.Launch(context.Background(), desktop.LaunchSpec{Distro: distro, GUI: gui}, consoleSink(console))
		if err != nil {
			brewerrors.HandleError(err)
			os.Exit(1)
		}
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <container-id>",
	Short: "Stop a desktop container",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		services := app.NewServices(cfg, nil)
		defer services.Close()

		if err := services.Orchestrator.Stop(context.Background(), args[0]); err != nil {
			brewerrors.HandleError(err)
			os.Exit(1)
		}
		ui.NewConsole().PrintSuccess("Container stopped successfully")
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <container-id>",
	Short: "Delete a desktop container",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		services := app.NewServices(cfg, nil)
		defer services.Close()

		if err := services.Orchestrator.Delete(context.Background(), args[0], force); err != nil {
			brewerrors.HandleError(err)
			os.Exit(1)
		}
		ui.NewConsole().PrintSuccess("Container deleted successfully")
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Print the container engine that would be used",
	Run: func(cmd *cobra.Command, args []string) {
		services := app.NewServices(cfg, nil)
		defer services.Close()

		eng, err := services.Detector.Detect(context.Background())
		if err != nil {
			brewerrors.HandleError(err)
			os.Exit(1)
		}
		fmt.Println(eng.Kind())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List desktop containers",
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		services := app.NewServices(cfg, nil)
		defer services.Close()

		if services.Inventory == nil {
			brewerrors.HandleError(brewerrors.NewNetworkError(
				"Container inventory unavailable",
				"no engine API client could be created",
				"Check DOCKER_HOST",
				nil,
			))
			os.Exit(1)
		}

		containers, err := services.Inventory.List(context.Background())
		if err != nil {
			brewerrors.HandleError(err)
			os.Exit(1)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(containers); err != nil {
				brewerrors.HandleError(err)
				os.Exit(1)
			}
			return
		}
		fmt.Print(formatContainers(containers))
	},
}

// consoleSink prints launch events. The error event is left to the error
// handler, which prints it with its cause and suggestion.
func consoleSink(console *ui.Console) progress.Sink {
	return progress.SinkFunc(func(e progress.Event) {
		switch e.Type {
		case progress.TypeStatus:
			console.PrintStatus(e.Message)
		case progress.TypeProgress:
			console.PrintProgress(e.Message)
		case progress.TypeComplete:
			console.PrintSuccess(fmt.Sprintf("%s Open %s (container %s)", e.Message, e.URL, e.ContainerID))
		}
	})
}

// formatContainers renders containers as an aligned table.
func formatContainers(containers []desktop.ContainerSummary) string {
	if len(containers) == 0 {
		return "No desktop containers found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %-32s %-10s %s\n", "ID", "NAME", "STATE", "STATUS")
	for _, c := range containers {
		id := c.ID
		if len(id) > 12 {
			id = id[:12]
		}
		fmt.Fprintf(&b, "%-14s %-32s %-10s %s\n", id, c.Name, c.State, c.Status)
	}
	return b.String()
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, brewerrors.NewConfigError(
			"Invalid log level",
			fmt.Sprintf("%q is not one of debug, info, warn, error", name),
			"Use --log-level debug|info|warn|error",
			err,
		)
	}
	return level, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	serveCmd.Flags().StringP("listen", "l", "", "Address to listen on (overrides server.listen)")
	rootCmd.AddCommand(serveCmd)

	launchCmd.Flags().String("distro", "", "Distribution identifier, e.g. ubuntu (required)")
	launchCmd.Flags().String("gui", "", "Desktop environment identifier, e.g. xfce (required)")
	for _, name := range []string{"distro", "gui"} {
		if err := launchCmd.MarkFlagRequired(name); err != nil {
			slog.Error("Failed to mark flag as required for launch command", "flag", name, "error", err)
		}
	}
	rootCmd.AddCommand(launchCmd)

	rootCmd.AddCommand(stopCmd)

	deleteCmd.Flags().BoolP("force", "f", false, "Remove the container even if it is running")
	rootCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(detectCmd)

	listCmd.Flags().Bool("json", false, "Print the containers as JSON")
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		brewerrors.HandleError(err)
		os.Exit(1)
	}
}
