package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/icodeforyou/elpris-go/config"
	"github.com/icodeforyou/elpris-go/metrics"
	"github.com/icodeforyou/elpris-go/mqtt"
	"github.com/icodeforyou/elpris-go/task"
	"github.com/icodeforyou/elpris-go/www"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Hämta priser enligt schema och servera HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, o.configPath)
		},
	}
}

func runServe(cmd *cobra.Command, configPath string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cnfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	a, err := newApp(ctx, cnfg, cmd.OutOrStdout(), slog.LevelInfo, m)
	if err != nil {
		return err
	}
	defer a.Close()
	a.logger.Info("elpris is starting...", slog.String("version", Version))

	var publisher task.WindowPublisher
	if cnfg.Mqtt.Enabled() {
		p := mqtt.New(cnfg.Mqtt.Host, cnfg.Mqtt.GetPort(), cnfg.Mqtt.Username, cnfg.Mqtt.Password, cnfg.Mqtt.GetTopicPrefix())
		if err := p.Connect(); err != nil {
			return fmt.Errorf("MQTT connection error: %w", err)
		}
		defer p.Disconnect()
		publisher = p
	}

	var purger task.Purger
	var logs www.LogReader
	if a.db != nil {
		purger = a.db
		logs = a.db
	}

	tasks, err := task.NewTasks(a.source, purger, publisher, m, cnfg)
	if err != nil {
		return err
	}
	if err := tasks.Run(); err != nil {
		return err
	}
	defer tasks.Stop()

	server := www.NewServer(a.source, logs, m, prometheus.DefaultGatherer, cnfg)
	err = server.Run(ctx)
	a.logger.Info("elpris is shutting down...")
	return err
}
