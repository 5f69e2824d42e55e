package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/nbalance/config"
	"github.com/kilianp07/nbalance/core/balance"
	coremetrics "github.com/kilianp07/nbalance/core/metrics"
	"github.com/kilianp07/nbalance/infra/logger"
	"github.com/kilianp07/nbalance/infra/metrics"
	"github.com/kilianp07/nbalance/pkg/export"
	"github.com/kilianp07/nbalance/pkg/scenario"
)

var runOpts struct {
	format string
	outDir string
	check  bool
}

var runCmd = &cobra.Command{
	Use:   "run SCENARIO...",
	Short: "Compute the balance and fertiliser schedule of scenario files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScenarios,
}

func init() {
	runCmd.Flags().StringVarP(&runOpts.format, "format", "f", "json", "output format: json or csv")
	runCmd.Flags().StringVarP(&runOpts.outDir, "out", "o", "", "directory for one output file per scenario (default stdout)")
	runCmd.Flags().BoolVar(&runOpts.check, "check", false, "fail when a scenario's expectations are not met")
	rootCmd.AddCommand(runCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(runOpts.format)
	if format != "json" && format != "csv" {
		return fmt.Errorf("unsupported output format: %s", runOpts.format)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewZerologLoggerWithOptions("balance", logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Out:    cmd.ErrOrStderr(),
	})
	sink, err := coremetrics.NewBalanceSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	eng := balance.NewEngine(logg, sink)

	var mu sync.Mutex
	stdout := cmd.OutOrStdout()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sc, err := scenario.Load(path)
			if err != nil {
				return err
			}
			in, err := sc.Inputs(cfg.Field, cfg.LossAccounting)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			res, err := eng.Run(in)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logg.Infof("%s: %d applications, %.1f kg N/ha required, run %s",
				sc.Name, len(res.Requirement.Applications), res.Requirement.Total, res.RunID)
			if runOpts.check {
				if msgs := sc.Check(res); len(msgs) > 0 {
					return fmt.Errorf("%s: %s", path, strings.Join(msgs, "; "))
				}
			}
			if runOpts.outDir != "" {
				return writeResultFile(runOpts.outDir, path, format, sc.Name, res)
			}
			mu.Lock()
			defer mu.Unlock()
			return writeResult(stdout, format, sc.Name, res)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, nil); err != nil {
			return fmt.Errorf("metrics textfile: %w", err)
		}
	}
	return nil
}

func writeResult(w io.Writer, format, name string, res balance.Result) error {
	if format == "csv" {
		return export.WriteCSV(w, res)
	}
	return export.WriteJSON(w, name, res)
}

func writeResultFile(dir, scenarioPath, format, name string, res balance.Result) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(scenarioPath), filepath.Ext(scenarioPath))
	f, err := os.Create(filepath.Join(dir, base+"."+format))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return writeResult(f, format, name, res)
}
