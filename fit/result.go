package fit

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/aouyang1/go-labfit/models"
	"github.com/aouyang1/go-labfit/odr"
	"github.com/aouyang1/go-labfit/stats"
	"github.com/aouyang1/go-labfit/uncertain"
	"github.com/aouyang1/go-labfit/util"
	"github.com/goccy/go-json"
)

const (
	resultBorder = "################################"
	resultTitle  = "####       Fit result       ####"
)

// Result holds the outcome of a fit. It is not modified after Fit returns.
type Result struct {
	// Params are the fitted parameters with their standard errors
	Params []uncertain.Value

	// R2 is the coefficient of determination, NaN when not computed or undefined
	R2 float64

	// AdjustedR2 is R2 corrected for the number of parameters, NaN when not computed or
	// undefined
	AdjustedR2 float64

	// Residuals are y - f(beta, x), nil when statistics are disabled
	Residuals []float64

	NumPoints int

	// Output is the raw solver output
	Output *odr.Output

	model models.Model
	opt   *Options
}

// Values unpacks the parameters, R², adjusted R², residuals and raw solver output
func (r *Result) Values() ([]uncertain.Value, float64, float64, []float64, *odr.Output) {
	return r.Params, r.R2, r.AdjustedR2, r.Residuals, r.Output
}

// Nominals returns the fitted parameter values without their errors
func (r *Result) Nominals() []float64 {
	return uncertain.Nominals(r.Params)
}

// Predict evaluates the fitted model at x
func (r *Result) Predict(x []float64) []float64 {
	return r.model(r.Nominals(), x)
}

// Outliers returns the indices of the residuals outside the percentile range [lower, upper]
// widened by tukey times the range on each side
func (r *Result) Outliers(lower, upper, tukey float64) []int {
	return stats.DetectOutliers(r.Residuals, lower, upper, tukey)
}

func (r *Result) stopReasons() []string {
	if r.Output == nil {
		return nil
	}
	return r.Output.StopReason
}

func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString(resultBorder + "\n" + resultTitle + "\n" + resultBorder + "\n")
	sb.WriteString("* Parameters:\n")
	for i, p := range r.Params {
		fmt.Fprintf(&sb, "      - p%d = %s ± %s\n", i+1, util.FormatFloat(p.Nominal, 'g', 4), util.FormatFloat(p.StdDev, 'g', 2))
	}
	fmt.Fprintf(&sb, "* R² = %s\n", util.FormatFloat(r.R2, 'f', 4))
	fmt.Fprintf(&sb, "* Adjusted R² = %s\n", util.FormatFloat(r.AdjustedR2, 'f', 4))
	sb.WriteString("* Stop reason(s):\n")
	reasons := r.stopReasons()
	if len(reasons) == 0 {
		reasons = []string{"N/A"}
	}
	for _, reason := range reasons {
		fmt.Fprintf(&sb, "      - %s\n", reason)
	}
	sb.WriteString(resultBorder)
	return sb.String()
}

// TablePrint writes the parameters, scores and solver summary as an aligned table
func (r *Result) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sFit:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sPoints: %d    Parameters: %d\n",
		prefix, util.IndentExpand(indent, 1), r.NumPoints, len(r.Params)); err != nil {
		return err
	}
	if err := tablePrintParams(w, prefix, indent, 1, r.Params); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sR2: %s    Adjusted R2: %s\n",
		prefix, util.IndentExpand(indent, 1),
		util.FormatFloat(r.R2, 'f', 4),
		util.FormatFloat(r.AdjustedR2, 'f', 4),
	); err != nil {
		return err
	}

	if r.Output == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s%sSolver:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sIterations: %d    Residual Variance: %s\n",
		prefix, util.IndentExpand(indent, 1),
		r.Output.Iterations, util.FormatFloat(r.Output.ResVar, 'g', 4)); err != nil {
		return err
	}
	for _, reason := range r.stopReasons() {
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, util.IndentExpand(indent, 1), reason); err != nil {
			return err
		}
	}
	return nil
}

func tablePrintParams(w io.Writer, prefix, indent string, indentGrowth int, params []uncertain.Value) error {
	if _, err := fmt.Fprintf(w, "%s%sParameters:\n", prefix, util.IndentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sName\tValue\tStdDev\t\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	for i, p := range params {
		if _, err := fmt.Fprintf(tbl, "%s%sp%d\t%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1), i+1,
			util.FormatFloat(p.Nominal, 'g', 6), util.FormatFloat(p.StdDev, 'g', 3)); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

type paramJSON struct {
	Nominal *float64 `json:"nominal"`
	StdDev  *float64 `json:"std_dev"`
}

type outputJSON struct {
	Beta       []*float64   `json:"beta"`
	SDBeta     []*float64   `json:"sd_beta"`
	CovBeta    [][]*float64 `json:"cov_beta"`
	SumSquare  *float64     `json:"sum_square"`
	ResVar     *float64     `json:"res_var"`
	Iterations int          `json:"iterations"`
	Info       int          `json:"info"`
	StopReason []string     `json:"stop_reason"`
}

type resultJSON struct {
	Params     []paramJSON `json:"params"`
	R2         *float64    `json:"r_squared"`
	AdjustedR2 *float64    `json:"adjusted_r_squared"`
	Residuals  []*float64  `json:"residuals,omitempty"`
	NumPoints  int         `json:"num_points"`
	Output     *outputJSON `json:"output,omitempty"`
}

// MarshalJSON exports the result with undefined values as null
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.export())
}

func (r *Result) export() resultJSON {
	res := resultJSON{
		Params:     exportParams(r.Params),
		R2:         nullable(r.R2),
		AdjustedR2: nullable(r.AdjustedR2),
		Residuals:  nullableSlice(r.Residuals),
		NumPoints:  r.NumPoints,
	}
	if r.Output != nil {
		cov := make([][]*float64, len(r.Output.CovBeta))
		for i, row := range r.Output.CovBeta {
			cov[i] = nullableSlice(row)
		}
		res.Output = &outputJSON{
			Beta:       nullableSlice(r.Output.Beta),
			SDBeta:     nullableSlice(r.Output.SDBeta),
			CovBeta:    cov,
			SumSquare:  nullable(r.Output.SumSquare),
			ResVar:     nullable(r.Output.ResVar),
			Iterations: r.Output.Iterations,
			Info:       r.Output.Info,
			StopReason: r.Output.StopReason,
		}
	}
	return res
}

func exportParams(params []uncertain.Value) []paramJSON {
	res := make([]paramJSON, len(params))
	for i, p := range params {
		res[i] = paramJSON{Nominal: nullable(p.Nominal), StdDev: nullable(p.StdDev)}
	}
	return res
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nullableSlice(vals []float64) []*float64 {
	if vals == nil {
		return nil
	}
	res := make([]*float64, len(vals))
	for i, v := range vals {
		res[i] = nullable(v)
	}
	return res
}
