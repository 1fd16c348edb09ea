package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/javajack/xlcull"
	"github.com/javajack/xlcull/internal/config"
)

func newRunCommand(cfg *config.Config) *cobra.Command {
	var (
		workers   int
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "run [job.yaml]",
		Short: "Run a job file, producing one culled copy per key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jf, err := xlcull.LoadJobFile(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				jf.Workers = workers
			} else if jf.Workers == 0 {
				jf.Workers = cfg.Workers
			}
			if outputDir == "" && jf.OutputDir == "" {
				outputDir = cfg.OutputDir
			}
			if outputDir != "" {
				abs, err := filepath.Abs(outputDir)
				if err != nil {
					return fmt.Errorf("resolve output dir %q: %w", outputDir, err)
				}
				jf.OutputDir = abs
			}

			issues, err := xlcull.ValidateSource(jf)
			if err != nil {
				return err
			}
			for _, issue := range issues {
				if issue.Severity == xlcull.SeverityWarning {
					log.Warn().Str("ref", issue.Ref).Msg(issue.Message)
					continue
				}
				fmt.Fprintln(cmd.ErrOrStderr(), issue)
			}
			if xlcull.HasErrors(issues) {
				return fmt.Errorf("run %q: job file has errors", args[0])
			}

			batch, err := jf.Batch(xlcull.WithLogger(log.Logger))
			if err != nil {
				return err
			}
			log.Info().
				Str("source", jf.SourcePath()).
				Int("jobs", len(batch.Keys)).
				Int("workers", batch.Workers).
				Msg("Starting job file")

			results, err := xlcull.RunBatch(cmd.Context(), jf.SourcePath(), batch)
			for _, res := range results {
				if res == nil {
					continue
				}
				printResult(cmd, res)
			}
			if err != nil {
				return fmt.Errorf("run %q: %w", args[0], err)
			}
			log.Info().Int("reports", len(results)).Msg("Completed job file")
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Number of copies processed concurrently")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the generated copies (overrides the job file)")
	return cmd
}

func printResult(cmd *cobra.Command, res *xlcull.Result) {
	cells := 0
	for _, c := range res.Formula.Cells {
		cells += len(c)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\tsheet=%s\trows=%d\tdeleted=%d\tformulas=%d\n",
		res.Path, res.Sheet, res.Cull.RowsAfter, res.Cull.DeletedCount(), cells)
}
