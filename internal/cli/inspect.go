package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yairfalse/polmon/internal/output"
	"github.com/yairfalse/polmon/internal/pipeline"
	"github.com/yairfalse/polmon/pkg/group"
	"github.com/yairfalse/polmon/pkg/logsource"
	"github.com/yairfalse/polmon/pkg/topology"
	"go.uber.org/zap"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE...",
	Short: "Build a group per log file and summarize it",
	Long: `Build one group per log file, read its log and, unless disabled,
infer the node and subnet topology. Topology inference loads the whole log
of a group into memory; use --no-topology to stream instead.`,
	Example: `  polmon inspect logs/*.log
  polmon inspect -o yaml --workers 8 run.log.zst
  polmon inspect --node-field host.id --subnet-field ic.subnet mainnet.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	flags := inspectCmd.Flags()
	flags.String("mode", "stream", "group mode: stream or eager")
	flags.Int("workers", 0, "groups processed in parallel (default from config)")
	flags.String("compression", "", "force log compression: none, gzip, zstd")
	flags.Bool("no-topology", false, "skip topology inference")
	flags.String("inferrer", topology.FieldInferrerName, "topology inferrer name")
	flags.String("node-field", topology.DefaultNodeField, "dotted path of the node identity")
	flags.String("subnet-field", topology.DefaultSubnetField, "dotted path of the subnet identity")

	viper.BindPFlag("mode", flags.Lookup("mode"))
	viper.BindPFlag("compression", flags.Lookup("compression"))
	viper.BindPFlag("topology.inferrer", flags.Lookup("inferrer"))
	viper.BindPFlag("topology.node_field", flags.Lookup("node-field"))
	viper.BindPFlag("topology.subnet_field", flags.Lookup("subnet-field"))
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if noTopology, _ := cmd.Flags().GetBool("no-topology"); noTopology {
		cfg.Topology.Enabled = false
	}

	logger, err := newLogger(cfg.Log.Level, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	for _, w := range cfg.Warnings() {
		logger.Warn("Configuration warning",
			zap.String("field", w.Field),
			zap.String("message", w.Message),
			zap.String("suggestion", w.Suggestion))
	}

	runnerConfig := pipeline.Config{
		Mode:          cfg.GroupMode(),
		Workers:       cfg.Workers,
		InferTopology: cfg.Topology.Enabled,
		GroupOptions: []group.Option{
			group.WithJobURLTemplate(cfg.CI.JobURLTemplate),
			group.WithSourceOptions(logsource.WithCompression(cfg.LogCompression())),
		},
	}
	if cfg.Topology.Enabled {
		registry := topology.DefaultRegistry(cfg.Topology.NodeField, cfg.Topology.SubnetField)
		inferrer, ok := registry.Get(cfg.Topology.Inferrer)
		if !ok {
			return fmt.Errorf("unknown topology inferrer %q (available: %v)", cfg.Topology.Inferrer, registry.List())
		}
		runnerConfig.Inferrer = inferrer
	}

	runner, err := pipeline.NewRunner(runnerConfig, logger)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(cfg.Output.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summaries, runErr := runner.Run(ctx, args)
	if err := formatter.PrintSummaries(summaries); err != nil {
		return fmt.Errorf("failed to print summaries: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	failed := 0
	for _, s := range summaries {
		if s.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d groups failed", failed, len(summaries))
	}
	return nil
}
