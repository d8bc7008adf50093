package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/queries"
	"github.com/reaandrew/vmlint/reporters"
	"github.com/reaandrew/vmlint/repositories"
	"github.com/reaandrew/vmlint/rules"
	"github.com/reaandrew/vmlint/runner"
	"github.com/reaandrew/vmlint/search"
	"github.com/reaandrew/vmlint/utils"
)

// Cli represents the command-line interface
type Cli struct {
	configPath  string
	nameFilter  string
	archivePath string
	useCache    bool
	quiet       bool
}

// Execute sets up and runs the root command
func (cli *Cli) Execute() error {
	rootCmd := &cobra.Command{
		Use:   "vmlint",
		Short: "vmlint diagnoses VM instances by searching their serial console output for known problems.",
	}

	rootCmd.AddCommand(cli.createScanCommand())

	return rootCmd.Execute()
}

// createScanCommand creates the 'scan' subcommand with its flags and subcommands
func (cli *Cli) createScanCommand() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:     "scan",
		Short:   "Run the diagnostic rules against instance serial logs.",
		Version: Version,
	}

	scanCmd.PersistentFlags().StringVar(&cli.configPath, "config", "", "Path to a vmlint TOML configuration file")
	scanCmd.PersistentFlags().StringVar(&cli.nameFilter, "instances", "", "Glob filter on instance names (e.g. 'prod-*')")
	scanCmd.PersistentFlags().StringVar(&cli.archivePath, "archive", "", "SQLite file to archive verdicts into")
	scanCmd.PersistentFlags().BoolVar(&cli.useCache, "cache", false, "Cache fetched serial logs between runs")
	scanCmd.PersistentFlags().BoolVar(&cli.quiet, "quiet", false, "Suppress the progress bar")

	scanDirCmd := &cobra.Command{
		Use:   "dir <SNAPSHOT_DIR>",
		Short: "Scan an offline snapshot directory of instance serial logs.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			directory := args[0]

			info, err := os.Stat(directory)
			if err != nil {
				log.Fatalf("Error accessing directory '%s': %v", directory, err)
			}
			if !info.IsDir() {
				log.Fatalf("Provided path '%s' is not a directory.", directory)
			}

			if err := cli.runSnapshotScan(directory); err != nil {
				log.Fatalf("Scan failed: %v", err)
			}
		},
	}

	scanCmd.AddCommand(scanDirCmd)
	return scanCmd
}

func (cli *Cli) runSnapshotScan(directory string) error {
	config, err := LoadConfig(cli.configPath)
	if err != nil {
		return err
	}
	setupLogging(config)

	source, err := queries.NewSnapshotSource(directory)
	if err != nil {
		return err
	}

	rc, err := core.NewRunContext(source.ProjectID(), cli.nameFilter, nil)
	if err != nil {
		return err
	}

	var logSource search.LogLineSource = source
	if cli.useCache || config.CachePath != "" {
		cachePath := config.CachePath
		if cachePath == "" {
			name := fmt.Sprintf("vmlint_cache_%s.db", utils.SanitizeForFilename(source.ProjectID()))
			cachePath = filepath.Join(os.TempDir(), name)
		}
		logSource = queries.NewCachedLogSource(source, cachePath, config.CacheTTL.Duration)
	}

	searches := search.NewRegistry(logSource)
	allRules, err := rules.Initialize(rules.Deps{Searches: searches, Env: source})
	if err != nil {
		return err
	}

	sinks := []core.Reporter{reporters.NewTerminalReporter(os.Stdout)}
	if cli.archivePath != "" {
		repository, err := repositories.NewSqliteVerdictRepository(cli.archivePath)
		if err != nil {
			return err
		}
		defer repository.Close()
		sinks = append(sinks, reporters.NewRepositoryReporter(repository))
	}

	var progress utils.ProgressReporter = utils.NewBarProgressReporter(len(allRules), "Evaluating rules")
	if cli.quiet {
		progress = utils.NullProgressReporter{}
	}

	lintRunner := runner.NewRunner(allRules, reporters.NewCompositeReporter(sinks...), progress)
	return lintRunner.Run(context.Background(), rc)
}
