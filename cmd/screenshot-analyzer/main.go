package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go-screenshot-analyzer/internal/config"
	"go-screenshot-analyzer/internal/container"
	"go-screenshot-analyzer/pkg/scoring"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "screenshot-analyzer",
	Short: "Screenshot creative analysis for app store listings",
	Long: `screenshot-analyzer runs the creative analysis pipeline over app store
screenshots: dominant colors, text density, theme, layout, and an optional
OCR pass, with batch-level aggregation and creative scoring.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [URL...]",
	Short: "Analyze one or more screenshot URLs",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		urlFile, _ := cmd.Flags().GetString("file")
		useOCR, _ := cmd.Flags().GetBool("ocr")
		workers, _ := cmd.Flags().GetInt("workers")
		category, _ := cmd.Flags().GetString("category")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		urls := append([]string{}, args...)
		if urlFile != "" {
			fromFile, err := readURLFile(urlFile)
			if err != nil {
				return err
			}
			urls = append(urls, fromFile...)
		}
		if len(urls) == 0 {
			return fmt.Errorf("no screenshot URLs given (pass them as arguments or via --file)")
		}

		cfg, err := config.LoadFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if workers > 0 {
			cfg.BatchWorkers = workers
		}

		c, err := container.NewContainerWithConfig(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize pipeline: %w", err)
		}
		defer c.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		analysis := c.AnalysisService()
		batch, err := analysis.AnalyzeBatch(ctx, urls, useOCR)
		if err != nil {
			return fmt.Errorf("batch analysis failed: %w", err)
		}
		summary := analysis.GetBatchSummary(batch)

		output := map[string]interface{}{
			"batch":   batch,
			"summary": summary,
			"score":   scoring.ScoreBatch(batch, summary, category),
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	},
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	return urls, nil
}

func init() {
	analyzeCmd.Flags().String("file", "", "File with one screenshot URL per line")
	analyzeCmd.Flags().Bool("ocr", false, "Run the advanced OCR pass on each screenshot")
	analyzeCmd.Flags().Int("workers", 0, "Batch workers (0 keeps the configured default)")
	analyzeCmd.Flags().String("category", "default", "App category for the creative score rubric")
	analyzeCmd.Flags().Duration("timeout", 5*time.Minute, "Overall batch timeout")

	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
