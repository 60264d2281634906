/*
Command hanvi runs the batch CLI: it loads a Hanvi dictionary from a
SQLite store, converts every `*.txt` file in an input folder, and writes
`<basename>_converted.txt` files to an output folder, with per-file work
spread across a bounded worker pool.

Data Files

The store file (default dict.db) holds the seven Hanvi tables; hanvi
creates the schema on first open if it is missing, but never creates
dictionary content.

Config

Runtime configuration is managed via a config.toml file, loaded the same
way across invocations. A default configuration is created automatically if
one does not exist.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/masceron/Hanvi/internal/batch"
	"github.com/masceron/Hanvi/internal/config"
	"github.com/masceron/Hanvi/internal/engine"
	"github.com/masceron/Hanvi/internal/ipc"
)

const (
	version = "0.1.0-beta"
	appName = "hanvi"
	gh      = "https://github.com/masceron/Hanvi"
)

var (
	flagInput      string
	flagOutput     string
	flagNameSet    string
	flagJobs       int
	flagConfigFile string
	flagDBPath     string
	flagVerbose    bool
	flagVersion    bool
)

func main() {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Converts Chinese text into Sino-Vietnamese and Vietnamese streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVarP(&flagInput, "input", "i", "", "input folder containing *.txt files")
	root.Flags().StringVarP(&flagOutput, "output", "o", "", "output folder for converted files")
	root.Flags().StringVarP(&flagNameSet, "nameset", "n", "", "name set title to activate (case-insensitive)")
	root.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "worker pool size (0 = runtime default)")
	root.Flags().StringVar(&flagConfigFile, "config", "", "path to config.toml")
	root.Flags().StringVar(&flagDBPath, "db", "", "path to the dictionary store (overrides config)")
	root.Flags().BoolVarP(&flagVerbose, "v", "v", false, "verbose logging")
	root.Flags().BoolVar(&flagVersion, "version", false, "show version and exit")

	serveCmd := &cobra.Command{
		Use:           "serve",
		Short:         "Run the MessagePack IPC server over stdin/stdout",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	serveCmd.Flags().StringVar(&flagConfigFile, "config", "", "path to config.toml")
	serveCmd.Flags().StringVar(&flagDBPath, "db", "", "path to the dictionary store (overrides config)")
	serveCmd.Flags().BoolVarP(&flagVerbose, "v", "v", false, "verbose logging")
	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	configPath := flagConfigFile
	if configPath == "" {
		configPath = "config.toml"
	}
	cfg, err := config.InitConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}

	ctx := context.Background()
	eng, err := engine.Open(ctx, dbPath, cfg.Converter.ProgressTick, cfg.Converter.RuleLookahead)
	if err != nil {
		return fmt.Errorf("cold load failed: %w", err)
	}
	defer eng.Close()

	return ipc.NewServer(eng).Start(ctx)
}

func run(cmd *cobra.Command, args []string) error {
	if flagVersion {
		printVersion()
		return nil
	}

	if flagVerbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if flagInput == "" || flagOutput == "" {
		return fmt.Errorf("both --input and --output are required")
	}

	inputInfo, err := os.Stat(flagInput)
	if err != nil || !inputInfo.IsDir() {
		return fmt.Errorf("input folder not readable: %s", flagInput)
	}
	if err := os.MkdirAll(flagOutput, 0755); err != nil {
		return fmt.Errorf("output folder not creatable: %w", err)
	}

	configPath := flagConfigFile
	if configPath == "" {
		configPath = "config.toml"
	}
	cfg, err := config.InitConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}

	jobs := flagJobs
	if jobs == 0 {
		jobs = cfg.CLI.DefaultJobs
	}
	if jobs < 1 {
		jobs = 1
	}

	ctx := context.Background()
	eng, err := engine.Open(ctx, dbPath, cfg.Converter.ProgressTick, cfg.Converter.RuleLookahead)
	if err != nil {
		return fmt.Errorf("cold load failed: %w", err)
	}
	defer eng.Close()

	if flagNameSet != "" {
		if err := eng.SwitchNameSetByTitle(ctx, flagNameSet); err != nil {
			log.Warnf("%v, continuing with no name set", err)
		}
	}

	entries, err := os.ReadDir(flagInput)
	if err != nil {
		return fmt.Errorf("read input folder: %w", err)
	}

	var jobList []batch.Job
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}
		srcPath := filepath.Join(flagInput, entry.Name())
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		dstPath := filepath.Join(flagOutput, base+"_converted.txt")
		jobList = append(jobList, batch.Job{
			Name: entry.Name(),
			Run:  convertFileJob(eng, srcPath, dstPath),
		})
	}

	if len(jobList) == 0 {
		log.Warn("no .txt files found in input folder")
		return nil
	}

	log.Infof("converting %d files with %d workers", len(jobList), jobs)
	results := batch.Run(jobList, jobs)

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed to convert", failures, len(jobList))
	}
	log.Info("batch conversion complete")
	return nil
}

func convertFileJob(eng *engine.Engine, srcPath, dstPath string) func() error {
	return func() error {
		data, err := os.ReadFile(srcPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", srcPath, err)
		}
		plain := eng.Converter.ConvertPlain(string(data), nil)
		if err := os.WriteFile(dstPath, []byte(plain), 0644); err != nil {
			return fmt.Errorf("write %s: %w", dstPath, err)
		}
		return nil
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[Hanvi] Chinese to Sino-Vietnamese and Vietnamese, aligned")
	logger.Print("", "version", version)
	logger.Print("")
	logger.Print("use --help to see available options")
	logger.Print("")
	logger.Print("Find out more at", "gh", gh)
}
