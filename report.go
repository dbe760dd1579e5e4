package labfit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/fit"
	"github.com/aouyang1/go-labfit/uncertain"
	"github.com/aouyang1/go-labfit/util"
	"github.com/goccy/go-json"
)

// Report is a serializable summary of an analysis run
type Report struct {
	Dataset     string `json:"dataset"`
	Fingerprint string `json:"fingerprint"`
	X           string `json:"x"`
	Y           string `json:"y"`
	Model       string `json:"model"`
	Marker      string `json:"marker"`
	Position    string `json:"position"`

	Options *fit.Options `json:"options"`
	Fit     *fit.Result  `json:"fit"`

	// Jackknife are the bias corrected parameters with their jackknife errors, empty when the
	// jackknife is disabled
	Jackknife        []uncertain.Value `json:"jackknife,omitempty"`
	JackknifeSubsets int               `json:"jackknife_subsets,omitempty"`
}

// Report summarizes the last run
func (a *Analysis) Report() (*Report, error) {
	return errs.Call("labfit.Analysis.Report", func() (*Report, error) {
		if a.result == nil {
			return nil, ErrNoResult
		}
		fp, err := a.dataset.Fingerprint()
		if err != nil {
			return nil, err
		}
		r := &Report{
			Dataset:     a.dataset.Path(),
			Fingerprint: fmt.Sprintf("%016x", fp),
			X:           a.xCol,
			Y:           a.yCol,
			Model:       a.entry.Name,
			Marker:      a.opt.Marker,
			Position:    a.opt.Position.String(),
			Options:     a.opt.Fit,
			Fit:         a.result,
		}
		if a.jackknife != nil {
			r.Jackknife = a.jackknife.Params
			r.JackknifeSubsets = len(a.jackknife.Subsets)
		}
		return r, nil
	})
}

// WriteJSON writes the indented JSON report
func (r *Report) WriteJSON(w io.Writer) error {
	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	bytes = append(bytes, '\n')
	_, err = w.Write(bytes)
	return err
}

// TablePrint writes the dataset, fit and jackknife sections
func (r *Report) TablePrint(w io.Writer) error {
	prefix := ""
	indent := "  "

	if _, err := fmt.Fprintf(w, "%s%sDataset:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	lines := []string{
		"Path: " + r.Dataset,
		"Fingerprint: " + r.Fingerprint,
		"Columns: " + strings.Join([]string{r.X, r.Y}, ", "),
		"Errors: " + strconv.Quote(r.Marker) + " " + r.Position,
		"Model: " + r.Model,
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, util.IndentExpand(indent, 1), line); err != nil {
			return err
		}
	}

	if r.Fit != nil {
		if err := r.Fit.TablePrint(w, prefix, indent); err != nil {
			return err
		}
	}

	if len(r.Jackknife) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s%sJackknife:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sSubsets: %d\n", prefix, util.IndentExpand(indent, 1), r.JackknifeSubsets); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sName\tValue\tStdDev\t\n", prefix, util.IndentExpand(indent, 1)); err != nil {
		return err
	}
	for i, p := range r.Jackknife {
		if _, err := fmt.Fprintf(tbl, "%s%sp%d\t%s\t%s\t\n",
			prefix, util.IndentExpand(indent, 1), i+1,
			util.FormatFloat(p.Nominal, 'g', 6), util.FormatFloat(p.StdDev, 'g', 3)); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
