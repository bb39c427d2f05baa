package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/outboundiq/leadpipe/internal/config"
	"github.com/outboundiq/leadpipe/internal/enrich"
	"github.com/outboundiq/leadpipe/internal/export"
	"github.com/outboundiq/leadpipe/internal/model"
	"github.com/outboundiq/leadpipe/internal/pipeline"
	"github.com/outboundiq/leadpipe/internal/report"
	"github.com/outboundiq/leadpipe/internal/source"
	"github.com/outboundiq/leadpipe/internal/store"
)

var (
	runProfilesPath  string
	runDirectoryPath string
	runTarget        string
	runOutDir        string
	runNoStore       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the batch pipeline over two raw record files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if runTarget != "" {
			cfg.Export.Target = runTarget
		}
		if runOutDir != "" {
			cfg.Export.OutDir = runOutDir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		profiles, directories := loadInputs()

		var st store.Store
		if !runNoStore {
			s, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return eris.Wrap(err, "open store")
			}
			defer s.Close()
			if err := s.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			st = s
		}

		p := pipeline.New(cfg, st, enrich.New(cfg.Pipeline))
		result, err := p.Run(ctx, profiles, directories)
		if err != nil {
			return eris.Wrap(err, "run pipeline")
		}

		if err := writeOutputs(result); err != nil {
			return err
		}

		fmt.Println(result.Report)
		return nil
	},
}

// loadInputs reads whichever source files were supplied. A missing or
// unreadable file degrades to an empty set; the pipeline rejects the batch
// only when both sources are empty.
func loadInputs() ([]model.ProfileRecord, []model.DirectoryRecord) {
	var profiles []model.ProfileRecord
	var directories []model.DirectoryRecord

	if runProfilesPath != "" {
		p, err := source.LoadProfiles(runProfilesPath)
		if err != nil {
			zap.L().Error("failed to load profile records", zap.String("path", runProfilesPath), zap.Error(err))
		} else {
			profiles = p
		}
	}
	if runDirectoryPath != "" {
		d, err := source.LoadDirectory(runDirectoryPath)
		if err != nil {
			zap.L().Error("failed to load directory records", zap.String("path", runDirectoryPath), zap.Error(err))
		} else {
			directories = d
		}
	}
	return profiles, directories
}

func writeOutputs(result *pipeline.Result) error {
	outDir := cfg.Export.OutDir

	if len(result.Instantly) > 0 {
		if err := writeCSVFile(filepath.Join(outDir, "instantly.csv"), result.Instantly); err != nil {
			return err
		}
	}
	if len(result.Smartlead) > 0 {
		if err := writeCSVFile(filepath.Join(outDir, "smartlead.csv"), result.Smartlead); err != nil {
			return err
		}
	}

	summaryPath := filepath.Join(outDir, "summary.yaml")
	f, err := os.Create(summaryPath)
	if err != nil {
		return eris.Wrapf(err, "create %s", summaryPath)
	}
	defer f.Close()
	if err := report.WriteYAML(f, result.Summary); err != nil {
		return err
	}

	zap.L().Info("outputs written",
		zap.String("out_dir", outDir),
		zap.String("run_id", result.RunID),
		zap.Int("instantly", len(result.Instantly)),
		zap.Int("smartlead", len(result.Smartlead)),
	)
	return nil
}

func writeCSVFile(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	return export.WriteCSV(f, records)
}

func init() {
	runCmd.Flags().StringVar(&runProfilesPath, "profiles", "", "path to profile-source records (.csv or .xlsx)")
	runCmd.Flags().StringVar(&runDirectoryPath, "directory", "", "path to directory-source records (.csv or .xlsx)")
	runCmd.Flags().StringVar(&runTarget, "target", "", fmt.Sprintf("export target: %s, %s, or %s", config.TargetInstantly, config.TargetSmartlead, config.TargetBoth))
	runCmd.Flags().StringVar(&runOutDir, "out-dir", "", "directory for export files and summary")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "skip persisting the run and leads dump")
	rootCmd.AddCommand(runCmd)
}
