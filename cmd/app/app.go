package app

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/artiomtarasiuk/log-analyzer/cmd/app/options"
	"github.com/artiomtarasiuk/log-analyzer/pkg/config"
	"github.com/artiomtarasiuk/log-analyzer/pkg/logfile"
	"github.com/artiomtarasiuk/log-analyzer/pkg/parser"
	"github.com/artiomtarasiuk/log-analyzer/pkg/report"
	"github.com/artiomtarasiuk/log-analyzer/pkg/stats"
)

func NewAnalyzerCommand() *cobra.Command {
	opts := options.NewOptions()

	cmd := &cobra.Command{
		Use:           "log-analyzer",
		Short:         "Aggregate nginx access-log request times into an HTML report",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runCommand(opts)
		},
	}
	opts.Flags(cmd)

	return cmd
}

// runCommand drives one batch run: config, log discovery, parse/aggregate,
// report render. The no-work outcomes (no log found, report already present,
// no traffic in the log) finish cleanly; format failures propagate.
func runCommand(opts *options.Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := setupLogging(opts.LogLevel, cfg.LogFile); err != nil {
		return err
	}

	meta, err := logfile.FindLatest(cfg.LogDir)
	if err != nil {
		return err
	}
	if meta == nil {
		log.Info("no logs found to be processed")
		return nil
	}
	log.WithFields(log.Fields{
		"file": meta.Name,
		"date": meta.Date.Format("2006.01.02"),
	}).Info("processing latest log")

	reportPath := report.Path(cfg.ReportDir, meta.Date)
	if report.Exists(reportPath) {
		log.WithFields(log.Fields{
			"report": reportPath,
		}).Info("report for the latest log date already exists")
		return nil
	}

	records, err := analyze(meta, cfg)
	if err != nil {
		if errors.Is(err, parser.ErrNoRecords) {
			log.Info("unable to generate report: no related records found")
			return nil
		}
		return err
	}

	if err := report.Render(cfg.ReportDir, reportPath, records); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"report":  reportPath,
		"records": len(records),
	}).Info("report generated")
	return nil
}

// analyze owns the log stream for the duration of one run.
func analyze(meta *logfile.Meta, cfg *config.Config) ([]stats.Record, error) {
	stream, err := meta.Open()
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	latencies, err := parser.Parse(stream, cfg.ErrorThreshold)
	if err != nil {
		return nil, err
	}
	return stats.TopN(stats.Build(latencies), cfg.ReportSize), nil
}

func setupLogging(level, file string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006.01.02 15:04:05",
	})
	if file == "" {
		log.SetOutput(os.Stdout)
		return nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFormatter(&log.JSONFormatter{})
	return nil
}
