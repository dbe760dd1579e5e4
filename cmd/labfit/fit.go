package main

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/aouyang1/go-labfit"
	"github.com/aouyang1/go-labfit/dataset"
	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/fit"
	"github.com/aouyang1/go-labfit/models"
	"github.com/spf13/cobra"
)

var (
	ErrMissingParams = fmt.Errorf("initial parameters are required for this model, %w", errs.ErrInvalidArgument)
	ErrDelimiter     = fmt.Errorf("delimiter must be a single character, %w", errs.ErrInvalidArgument)
)

var fitFlags struct {
	file      string
	x         string
	y         string
	model     string
	p0        []float64
	degree    int
	delimiter string
	noHeader  bool
	names     []string
	skip      []int
	marker    string
	prefix    bool
	jackknife bool
	plot      string
	json      bool
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a model to two columns of a delimited file",
	Long: `Loads the file, pairs the columns with their error columns and fits the
model. Without --p0 the linear and polynomial models start from a least squares
guess of the given degree.

Models:
  - linear: y = b0 + b1*x
  - polynomial: y = b0 + b1*x + ... + bn*x^n
  - apv: asymmetric pseudo-Voigt peak (A, x0, sigma1, eta1, sigma2, eta2, y0)`,
	Args: cobra.NoArgs,
	RunE: runFit,
}

func init() {
	f := fitCmd.Flags()
	f.StringVarP(&fitFlags.file, "file", "f", "", "delimited data file, optionally .gz, .zst or .lz4 compressed")
	f.StringVar(&fitFlags.x, "x", "", "independent variable column")
	f.StringVar(&fitFlags.y, "y", "", "dependent variable column")
	f.StringVarP(&fitFlags.model, "model", "m", models.NameLinear, "registered model name")
	f.Float64SliceVar(&fitFlags.p0, "p0", nil, "initial parameters, e.g. 1,1")
	f.IntVar(&fitFlags.degree, "degree", 1, "polynomial degree of the initial guess when --p0 is not set")
	f.StringVarP(&fitFlags.delimiter, "delimiter", "d", `\t`, "field delimiter")
	f.BoolVar(&fitFlags.noHeader, "no-header", false, "the file has no header line, requires --names")
	f.StringSliceVar(&fitFlags.names, "names", nil, "column names")
	f.IntSliceVar(&fitFlags.skip, "skip", nil, "0-based line numbers to skip")
	f.StringVar(&fitFlags.marker, "marker", labfit.DefaultMarker, "marker identifying the error columns")
	f.BoolVar(&fitFlags.prefix, "prefix", false, "the marker prefixes the error column names instead of suffixing them")
	f.BoolVar(&fitFlags.jackknife, "jackknife", false, "estimate the parameter errors leaving one point out at a time")
	f.StringVar(&fitFlags.plot, "plot", "", "save the fit figure, .html for an interactive page")
	f.BoolVar(&fitFlags.json, "json", false, "print the report as JSON")

	_ = fitCmd.MarkFlagRequired("file")
	_ = fitCmd.MarkFlagRequired("x")
	_ = fitCmd.MarkFlagRequired("y")
}

func runFit(cmd *cobra.Command, args []string) error {
	delim, err := parseDelimiter(fitFlags.delimiter)
	if err != nil {
		return err
	}
	ds, err := dataset.Load(fitFlags.file, &dataset.LoadOptions{
		Delimiter: delim,
		Header:    !fitFlags.noHeader,
		Names:     fitFlags.names,
		SkipRows:  fitFlags.skip,
	})
	if err != nil {
		return err
	}

	entry, err := models.Default().Get(fitFlags.model)
	if err != nil {
		return err
	}
	p0, err := initialParams(ds, entry)
	if err != nil {
		return err
	}

	opt := labfit.NewDefaultOptions()
	opt.Marker = fitFlags.marker
	if fitFlags.prefix {
		opt.Position = dataset.Prefix
	}
	if fitFlags.jackknife {
		opt.Jackknife = fit.LeaveOneOut()
	}

	a, err := labfit.New(opt)
	if err != nil {
		return err
	}
	if err := a.RunModel(ds, fitFlags.x, fitFlags.y, entry, p0); err != nil {
		return err
	}
	if err := report(cmd, a, fitFlags.json); err != nil {
		return err
	}
	if fitFlags.plot == "" {
		return nil
	}
	return plotFit(a, fitFlags.plot)
}

// initialParams returns --p0, or a least squares polynomial guess for the polynomial models
func initialParams(ds *dataset.Dataset, entry models.Entry) ([]float64, error) {
	if len(fitFlags.p0) > 0 {
		return fitFlags.p0, nil
	}
	degree := fitFlags.degree
	switch entry.Name {
	case models.NameLinear:
		degree = 1
	case models.NamePolynomial:
	default:
		return nil, fmt.Errorf("model %s, %w", entry.Name, ErrMissingParams)
	}
	x, err := ds.Col(fitFlags.x)
	if err != nil {
		return nil, err
	}
	y, err := ds.Col(fitFlags.y)
	if err != nil {
		return nil, err
	}
	return models.PolynomialGuess(x, y, degree)
}

// parseDelimiter accepts a single character or the escapes \t and \s
func parseDelimiter(s string) (rune, error) {
	switch s {
	case `\t`, "tab":
		return '\t', nil
	case `\s`, "space":
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%q, %w", s, ErrDelimiter)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func report(cmd *cobra.Command, a *labfit.Analysis, asJSON bool) error {
	w := cmd.OutOrStdout()
	if asJSON {
		r, err := a.Report()
		if err != nil {
			return err
		}
		return r.WriteJSON(w)
	}
	if _, err := fmt.Fprintln(w, a.Result().String()); err != nil {
		return err
	}
	return a.TablePrint(w)
}

func plotFit(a *labfit.Analysis, path string) error {
	style, err := loadStyle()
	if err != nil {
		return err
	}
	return a.PlotFit(filepath.Base(path), &labfit.PlotOptions{
		Style:     style,
		OutputDir: filepath.Dir(path),
	})
}
