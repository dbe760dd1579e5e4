package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aouyang1/go-labfit/plot"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	stylePath string
)

var rootCmd = &cobra.Command{
	Use:   "labfit",
	Short: "Fit models to laboratory measurements with their uncertainties",
	Long: `labfit loads delimited measurement tables, pairs every column with its
error column, fits a model by orthogonal distance regression and estimates the
parameter errors by jackknife resampling.

Example:
  labfit fit --file data.tsv --x time --y distance --model linear --jackknife
  labfit demo --out demo`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().StringVar(&stylePath, "style", "", "YAML plot style file")

	rootCmd.AddCommand(fitCmd, demoCmd)
}

// loadStyle returns the plot style from --style, nil for the default
func loadStyle() (*plot.Style, error) {
	if stylePath == "" {
		return nil, nil
	}
	return plot.LoadStyle(stylePath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
