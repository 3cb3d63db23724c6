package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theiagen/nf-theia/internal/log"
	"github.com/theiagen/nf-theia/pkg/models"
	"github.com/theiagen/nf-theia/pkg/scheme"
	"github.com/theiagen/nf-theia/pkg/storage"
)

func SetupCLI(rootCmd *cobra.Command) {
	collateCmd := &cobra.Command{
		Use:   "collate [dir]",
		Short: "Collate per-task report files under a directory into one document (CLI)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				log.GetLogger().Errorf("Error retrieving config flag: %v", err)
				os.Exit(1)
			}
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				log.GetLogger().Errorf("Error retrieving output flag: %v", err)
				os.Exit(1)
			}
			cfg := models.DefaultReporterConfig()
			if configPath != "" {
				cfg, err = models.LoadReporterConfig(configPath)
				if err != nil {
					log.GetLogger().Errorf("Failed to load config: %v", err)
					fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
					os.Exit(1)
				}
			}
			collateDir(args[0], output, cfg)
		},
	}
	collateCmd.Flags().String("config", "", "reporter configuration file (YAML)")
	collateCmd.Flags().String("output", "", "path of the collated file (default <dir>/<collatedFileName>)")

	inspectCmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print a summary of one task report file (CLI)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			inspectReport(args[0])
		},
	}

	rootCmd.AddCommand(collateCmd, inspectCmd)
}

// collateDir rebuilds a collated document from per-task report files
// already on disk, for runs executed with collation off.
func collateDir(dir, output string, cfg models.ReporterConfig) {
	reports, err := loadReports(dir, cfg.CollatedFileName)
	if err != nil {
		log.GetLogger().Errorf("Failed to read reports under %s: %v", dir, err)
		fmt.Fprintf(os.Stderr, "Error: failed to read reports: %v\n", err)
		os.Exit(1)
	}
	if len(reports) == 0 {
		fmt.Fprintf(os.Stdout, "No report files found under %s.\n", dir)
		return
	}

	// published paths are already final on disk; an empty correlator
	// resync would wipe them, so package the reports as-is
	collated := models.CollatedReport{
		Workflow: models.WorkflowSummary{
			TotalTasks: len(reports),
			Timestamp:  models.ReportTimestamp(time.Now()),
		},
		Tasks: reports,
	}
	data, err := json.MarshalIndent(collated, "", "  ")
	if err != nil {
		log.GetLogger().Errorf("Failed to marshal collated report: %v", err)
		os.Exit(1)
	}

	if output == "" {
		output = scheme.Join(dir, cfg.CollatedFileName)
	}
	writer := storage.NewWriter(log.GetLogger())
	if err := writer.Write(context.Background(), output, data); err != nil {
		log.GetLogger().Errorf("Failed to write collated report: %v", err)
		fmt.Fprintf(os.Stderr, "Error: failed to write collated report: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Collated %d reports into %s\n", len(reports), output)
}

// loadReports walks dir and parses every *.json task report, skipping
// files named like the collated document itself.
func loadReports(dir, collatedFileName string) ([]*models.TaskReport, error) {
	var reports []*models.TaskReport
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") || d.Name() == collatedFileName {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var rep models.TaskReport
		if err := json.Unmarshal(data, &rep); err != nil || rep.Process == "" || rep.Outputs == nil {
			log.GetLogger().Infof("Skipping %s: not a task report", path)
			return nil
		}
		reports = append(reports, &rep)
		return nil
	})
	return reports, err
}

func inspectReport(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.GetLogger().Errorf("Failed to read %s: %v", path, err)
		fmt.Fprintf(os.Stderr, "Error: failed to read report: %v\n", err)
		os.Exit(1)
	}
	var rep models.TaskReport
	if err := json.Unmarshal(data, &rep); err != nil || rep.Outputs == nil {
		log.GetLogger().Errorf("Failed to parse %s: %v", path, err)
		fmt.Fprintf(os.Stderr, "Error: %s is not a task report\n", path)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Task: %s\n", rep.TaskName)
	fmt.Fprintf(os.Stdout, "Work dir: %s\n", rep.WorkDir)
	fmt.Fprintf(os.Stdout, "Created: %s\n", rep.Timestamp)
	for _, name := range rep.Outputs.Names() {
		g, _ := rep.Outputs.Get(name)
		fmt.Fprintf(os.Stdout, "- %s: %d file(s), %d published\n",
			name, len(g.WorkDirFiles), len(g.PublishedFiles))
	}
}
