package labfit

import (
	"testing"

	"github.com/aouyang1/go-labfit/dataset"
	"github.com/aouyang1/go-labfit/fit"
	"github.com/aouyang1/go-labfit/models"
	"github.com/aouyang1/go-labfit/simulate"
	"github.com/pkg/profile"
)

var benchReport *Report

func BenchmarkCubicJackknife(b *testing.B) {
	ds, err := simulate.Cubic(nil)
	if err != nil {
		panic(err)
	}
	entry, err := models.Default().Get(models.NamePolynomial)
	if err != nil {
		panic(err)
	}
	opt := &Options{
		Marker:    simulate.CubicMarker,
		Position:  dataset.Prefix,
		Jackknife: fit.LeaveOneOut(),
	}

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(b.TempDir()), profile.Quiet).Stop()
	for b.Loop() {
		a, err := New(opt)
		if err != nil {
			panic(err)
		}
		if err := a.RunModel(ds, simulate.CubicColumnX, simulate.CubicColumnY, entry, []float64{1, 1, 1, 1}); err != nil {
			panic(err)
		}
		benchReport, err = a.Report()
		if err != nil {
			panic(err)
		}
	}
}
