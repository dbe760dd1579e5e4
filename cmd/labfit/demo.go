package main

import (
	"path/filepath"

	"github.com/aouyang1/go-labfit"
	"github.com/aouyang1/go-labfit/dataset"
	"github.com/aouyang1/go-labfit/fit"
	"github.com/aouyang1/go-labfit/models"
	"github.com/aouyang1/go-labfit/simulate"
	"github.com/spf13/cobra"
)

var demoFlags struct {
	out  string
	seed uint64
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Fit a simulated noisy cubic with a leave one out jackknife",
	Long: `Generates y = 0.5x^3 - 1.2x^2 + 3x + 2.5 with gaussian noise on 50 points
in [-5, 5], writes it with its errors to cubic.csv, loads it back, fits a cubic
polynomial, jackknifes it and saves the figure to cubic.png.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVarP(&demoFlags.out, "out", "o", "demo", "output directory")
	demoCmd.Flags().Uint64Var(&demoFlags.seed, "seed", simulate.NewDefaultCubicOptions().Seed, "noise seed")
}

func runDemo(cmd *cobra.Command, args []string) error {
	opt := simulate.NewDefaultCubicOptions()
	opt.Seed = demoFlags.seed
	generated, err := simulate.Cubic(opt)
	if err != nil {
		return err
	}
	path := filepath.Join(demoFlags.out, "cubic.csv")
	if err := generated.Save(path); err != nil {
		return err
	}

	ds, err := dataset.Load(path, &dataset.LoadOptions{Delimiter: ',', Header: true})
	if err != nil {
		return err
	}

	entry, err := models.Default().Get(models.NamePolynomial)
	if err != nil {
		return err
	}
	x, err := ds.Col(simulate.CubicColumnX)
	if err != nil {
		return err
	}
	y, err := ds.Col(simulate.CubicColumnY)
	if err != nil {
		return err
	}
	p0, err := models.PolynomialGuess(x, y, len(opt.Coef)-1)
	if err != nil {
		return err
	}

	a, err := labfit.New(&labfit.Options{
		Marker:    simulate.CubicMarker,
		Position:  dataset.Prefix,
		Jackknife: fit.LeaveOneOut(),
	})
	if err != nil {
		return err
	}
	if err := a.RunModel(ds, simulate.CubicColumnX, simulate.CubicColumnY, entry, p0); err != nil {
		return err
	}
	if err := report(cmd, a, false); err != nil {
		return err
	}
	return plotFit(a, filepath.Join(demoFlags.out, "cubic.png"))
}
