// Command transferguard flags anomalous file-transfer events in a completed
// transfer log using DBSCAN density clustering.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hed1ad/transferguard/pkg/io"
	"github.com/hed1ad/transferguard/pkg/io/csv"
	"github.com/hed1ad/transferguard/pkg/io/jsonlog"
	"github.com/hed1ad/transferguard/pkg/mockdata"
	"github.com/hed1ad/transferguard/pkg/pipeline"
	"github.com/hed1ad/transferguard/pkg/transfer"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

func main() {
	root := &cobra.Command{
		Use:           "transferguard",
		Short:         "Anomaly detection for file-transfer logs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newDetectCmd(), newGenerateCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newDetectCmd() *cobra.Command {
	var (
		input      string
		output     string
		eps        float64
		minSamples int
		lenient    bool
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Cluster a transfer log and report noise records as anomalies",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := jsonlog.NewReader(input)
			if err != nil {
				return err
			}
			defer reader.Close()

			batch, err := reader.Read()
			if err != nil {
				return err
			}
			log.Info().Int("records", len(batch)).Str("input", input).Msg("loaded transfer log")

			p := pipeline.New(
				pipeline.WithEps(eps),
				pipeline.WithMinSamples(minSamples),
				pipeline.WithLenient(lenient),
				pipeline.WithWorkers(workers),
			)

			result, err := p.Run(cmd.Context(), batch)
			if err != nil {
				return err
			}

			log.Info().
				Str("run_id", result.RunID).
				Int("clusters", len(result.Summary.ClusterCounts)).
				Int("noise", result.Summary.NoiseCount).
				Int("rejected", len(result.RejectedRecords)).
				Msg("clustering complete")

			for _, rejected := range result.RejectedRecords {
				log.Warn().Str("record", rejected.ID).Err(rejected.Reason).Msg("record excluded")
			}

			if err := result.Summary.Render(cmd.OutOrStdout()); err != nil {
				return err
			}

			if output != "" {
				if err := writeCSV(output, batch, result); err != nil {
					return err
				}
				log.Info().Str("output", output).Msg("saved labeled records")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "transfer log JSON file (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write labeled records to this CSV file")
	cmd.Flags().Float64Var(&eps, "eps", 0.9, "neighborhood radius in scaled feature space")
	cmd.Flags().IntVar(&minSamples, "min-samples", 8, "minimum neighborhood size for a core point")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "exclude invalid records instead of failing the run")
	cmd.Flags().IntVar(&workers, "workers", 0, "feature encoding workers (0 = all CPUs)")
	cmd.MarkFlagRequired("input")

	return cmd
}

func writeCSV(path string, batch map[string]transfer.Record, result *pipeline.Result) error {
	writer, err := csv.NewWriter(path)
	if err != nil {
		return err
	}

	results := make([]io.Result, 0, len(result.IDs))
	for _, id := range result.IDs {
		results = append(results, io.Result{
			ID:         id,
			Record:     batch[id],
			Assignment: result.Assignments[id],
		})
	}

	if err := writer.WriteAll(results); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

func newGenerateCmd() *cobra.Command {
	var (
		out         string
		normalCount int
		outliers    int
		successRate float64
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic transfer log for testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := mockdata.New(
				mockdata.WithSeed(seed),
				mockdata.WithSuccessRate(successRate),
			)
			batch := gen.Batch(normalCount, outliers)

			data, err := json.MarshalIndent(batch, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}

			log.Info().Int("records", len(batch)).Str("out", out).Msg("wrote mock transfer log")
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(batch), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "mockData.json", "output file")
	cmd.Flags().IntVar(&normalCount, "normal", 1000, "number of routine records")
	cmd.Flags().IntVar(&outliers, "outliers", 20, "number of outlier-profile records")
	cmd.Flags().Float64Var(&successRate, "success-rate", 0.99, "fraction of transfers marked successful")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	return cmd
}
