// Package odr implements weighted orthogonal distance regression. The solver minimizes
//
//	S(beta, delta) = sum(wy_i * (f(beta, x_i + delta_i) - y_i)^2 + wx_i * delta_i^2)
//
// over the model parameters beta and the x corrections delta with Levenberg-Marquardt steps,
// and reports its results the way ODRPACK does: optimal parameters, their standard errors
// scaled by the residual variance, the unscaled covariance and the stop reasons.
package odr

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/aouyang1/go-labfit/floatsunrolled"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	eps = 2.220446049250313e-16

	initialLambda = 1e-3
	minLambda     = 1e-12
	maxLambda     = 1e16
)

const (
	InfoSumSquaresConvergence = 1
	InfoParamConvergence      = 2
	InfoBothConvergence       = 3
	InfoIterationLimit        = 4

	// InfoSingularCovariance is added to the info code when the covariance could not be
	// computed at the solution
	InfoSingularCovariance = 10
)

var (
	ErrNoParams            = fmt.Errorf("no initial parameters, %w", errs.ErrInvalidArgument)
	ErrNilModel            = fmt.Errorf("nil model function, %w", errs.ErrInvalidArgument)
	ErrModelOutputLen      = fmt.Errorf("model output length does not match the number of points, %w", errs.ErrInvalidArgument)
	ErrNonFiniteModel      = fmt.Errorf("model returned non finite values at the initial parameters, %w", errs.ErrInvalidArgument)
	ErrUnderdetermined     = fmt.Errorf("fewer points than parameters, %w", errs.ErrInvalidArgument)
	ErrModelPanic          = errors.New("model function panicked")
	ErrNonFiniteParameters = fmt.Errorf("solver produced non finite parameters, %w", errs.ErrComputationUndefined)
)

// Func evaluates a model at every point of x
type Func func(beta, x []float64) []float64

// Output holds the solver results
type Output struct {
	// Beta are the estimated parameters
	Beta []float64 `json:"beta"`

	// SDBeta are the standard errors of the parameters, sqrt(diag(CovBeta) * ResVar)
	SDBeta []float64 `json:"sd_beta"`

	// CovBeta is the covariance of the parameters not scaled by the residual variance
	CovBeta [][]float64 `json:"cov_beta"`

	// Delta are the estimated corrections of x
	Delta []float64 `json:"delta"`

	// Eps are the residuals of y at the corrected x, f(beta, x+delta) - y
	Eps []float64 `json:"eps"`

	// XPlus is x + delta
	XPlus []float64 `json:"x_plus"`

	// YFit is f(beta, x+delta)
	YFit []float64 `json:"y_fit"`

	SumSquare      float64 `json:"sum_square"`
	SumSquareDelta float64 `json:"sum_square_delta"`
	SumSquareEps   float64 `json:"sum_square_eps"`

	// ResVar is SumSquare/(n-p). NaN when there are no degrees of freedom.
	ResVar float64 `json:"res_var"`

	Iterations int      `json:"iterations"`
	Info       int      `json:"info"`
	StopReason []string `json:"stop_reason"`
}

// Run fits model to data starting from beta0
func Run(model Func, data *Data, beta0 []float64, opt *Options) (out *Output, err error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if len(beta0) == 0 {
		return nil, ErrNoParams
	}
	if err := data.validate(); err != nil {
		return nil, err
	}
	opt, err = opt.Validate()
	if err != nil {
		return nil, err
	}
	n, p := len(data.X), len(beta0)
	if n < p {
		return nil, fmt.Errorf("got %d points for %d parameters, %w", n, p, ErrUnderdetermined)
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%v, %w", r, ErrModelPanic)
		}
	}()

	s := newSolver(model, data, beta0)
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.solve(opt)
}

type solver struct {
	model Func
	data  *Data
	n, p  int

	// sqrt of the weights
	sy, sx []float64

	// theta holds beta followed by delta
	theta []float64
	r     []float64
	ss    float64

	xplus []float64
}

func newSolver(model Func, data *Data, beta0 []float64) *solver {
	n, p := len(data.X), len(beta0)
	s := &solver{
		model: model,
		data:  data,
		n:     n,
		p:     p,
		sy:    make([]float64, n),
		sx:    make([]float64, n),
		theta: make([]float64, p+n),
		r:     make([]float64, 2*n),
		xplus: make([]float64, n),
	}
	copy(s.theta, beta0)
	for i := 0; i < n; i++ {
		s.sy[i] = math.Sqrt(weightAt(data.WeightY, i))
		s.sx[i] = math.Sqrt(weightAt(data.WeightX, i))
	}
	return s
}

func (s *solver) beta(theta []float64) []float64 {
	return theta[:s.p]
}

func (s *solver) delta(theta []float64) []float64 {
	return theta[s.p:]
}

// residuals fills r for theta and returns the weighted sum of squares
func (s *solver) residuals(theta, r, xplus []float64) (float64, error) {
	floats.AddTo(xplus, s.data.X, s.delta(theta))
	yfit := s.model(s.beta(theta), xplus)
	if len(yfit) != s.n {
		return 0, fmt.Errorf("expected %d values but got %d, %w", s.n, len(yfit), ErrModelOutputLen)
	}
	delta := s.delta(theta)
	for i := 0; i < s.n; i++ {
		r[i] = s.sy[i] * (yfit[i] - s.data.Y[i])
		r[s.n+i] = s.sx[i] * delta[i]
	}
	return floatsunrolled.SumSquares(r), nil
}

func (s *solver) init() error {
	ss, err := s.residuals(s.theta, s.r, s.xplus)
	if err != nil {
		return err
	}
	if !isFinite(ss) {
		return ErrNonFiniteModel
	}
	s.ss = ss
	return nil
}

// jacobian of the residuals at theta. jb holds the weighted derivatives of the y residuals
// with respect to beta and d their derivatives with respect to each delta. The derivatives of
// the x residuals form the diagonal sx.
func (s *solver) jacobian() (jb *mat.Dense, d []float64) {
	n, p := s.n, s.p

	floats.AddTo(s.xplus, s.data.X, s.delta(s.theta))
	xplus := s.xplus

	// parameters
	jb = mat.NewDense(n, p, nil)
	fd.Jacobian(
		jb,
		func(y, beta []float64) {
			copy(y, s.model(beta, xplus))
		},
		s.beta(s.theta),
		&fd.JacobianSettings{Formula: fd.Central},
	)

	// the model is pointwise in x so a single shifted evaluation per side gives the diagonal
	// of the derivative with respect to x
	h := make([]float64, n)
	xhi := make([]float64, n)
	xlo := make([]float64, n)
	for i, xi := range xplus {
		h[i] = math.Cbrt(eps) * math.Max(math.Abs(xi), 1)
		xhi[i] = xi + h[i]
		xlo[i] = xi - h[i]
	}
	beta := s.beta(s.theta)
	yhi := s.model(beta, xhi)
	ylo := s.model(beta, xlo)

	d = make([]float64, n)
	for i := 0; i < n; i++ {
		floats.Scale(s.sy[i], jb.RawRowView(i))
		d[i] = s.sy[i] * (yhi[i] - ylo[i]) / (xhi[i] - xlo[i])
	}
	return jb, d
}

// normal holds the normal equations J'J step = -J'r. The delta block of J'J is diagonal so
// every delta is eliminated per point and only a p x p system is factorized.
type normal struct {
	p, n int

	// a is the beta block of J'J
	a  *mat.SymDense
	jb *mat.Dense
	d  []float64

	// c is the diagonal delta block of J'J
	c []float64

	// gb and gd are -J'r split into the beta and delta parts
	gb []float64
	gd []float64
}

func (s *solver) normal() *normal {
	n, p := s.n, s.p
	jb, d := s.jacobian()

	a := mat.NewSymDense(p, nil)
	a.SymOuterK(1, jb.T())

	ry, rx := s.r[:n], s.r[n:]
	gb := make([]float64, p)
	gd := make([]float64, n)
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		floats.AddScaled(gb, -ry[i], jb.RawRowView(i))
		c[i] = d[i]*d[i] + s.sx[i]*s.sx[i]
		gd[i] = -(d[i]*ry[i] + s.sx[i]*rx[i])
	}
	return &normal{p: p, n: n, a: a, jb: jb, d: d, c: c, gb: gb, gd: gd}
}

// damp adds lambda times the diagonal entry, or lambda alone for a zero entry
func damp(v, lambda float64) float64 {
	if v == 0 {
		return lambda
	}
	return v + lambda*v
}

// reduce returns the Schur complement of the damped delta block, A - B C^-1 B', the matching
// right hand side for beta and the damped delta diagonal
func (nm *normal) reduce(lambda float64) (*mat.SymDense, []float64, []float64) {
	schur := mat.NewSymDense(nm.p, nil)
	schur.CopySym(nm.a)
	for j := 0; j < nm.p; j++ {
		schur.SetSym(j, j, damp(nm.a.At(j, j), lambda))
	}

	rhs := make([]float64, nm.p)
	copy(rhs, nm.gb)
	cd := make([]float64, nm.n)
	u := mat.NewDense(nm.n, nm.p, nil)
	for i := 0; i < nm.n; i++ {
		cd[i] = damp(nm.c[i], lambda)
		row := nm.jb.RawRowView(i)
		floats.AddScaled(rhs, -nm.d[i]*nm.gd[i]/cd[i], row)
		floats.ScaleTo(u.RawRowView(i), nm.d[i]/math.Sqrt(cd[i]), row)
	}
	schur.SymRankK(schur, -1, u.T())
	return schur, rhs, cd
}

// step solves the damped normal equations into step, beta first then delta
func (nm *normal) step(lambda float64, step []float64) bool {
	schur, rhs, cd := nm.reduce(lambda)

	var chol mat.Cholesky
	if ok := chol.Factorize(schur); !ok {
		return false
	}
	var db mat.VecDense
	if err := chol.SolveVecTo(&db, mat.NewVecDense(nm.p, rhs)); err != nil {
		return false
	}
	copy(step[:nm.p], db.RawVector().Data)
	for i := 0; i < nm.n; i++ {
		step[nm.p+i] = (nm.gd[i] - nm.d[i]*floats.Dot(nm.jb.RawRowView(i), step[:nm.p])) / cd[i]
	}
	return true
}

func (s *solver) solve(opt *Options) (*Output, error) {
	k := s.p + s.n
	lambda := initialLambda

	step := make([]float64, k)
	next := make([]float64, k)
	nextR := make([]float64, 2*s.n)
	nextX := make([]float64, s.n)

	info := InfoIterationLimit
	var iter int
	for iter < opt.MaxIterations {
		nm := s.normal()

		accepted := false
		var nextSS float64
		for lambda <= maxLambda {
			if !nm.step(lambda, step) {
				lambda *= 10
				continue
			}

			floats.AddTo(next, s.theta, step)
			ss, err := s.residuals(next, nextR, nextX)
			if err != nil {
				return nil, err
			}
			if isFinite(ss) && ss <= s.ss {
				nextSS = ss
				accepted = true
				break
			}
			lambda *= 10
		}

		if !accepted {
			// no step reduces the sum of squares any further
			info = InfoSumSquaresConvergence
			break
		}
		iter++

		ssConv := s.ss-nextSS <= opt.SumSquaresTol*s.ss
		betaStep := step[:s.p]
		parConv := floats.Norm(betaStep, 2) <= opt.ParamTol*(floats.Norm(s.beta(s.theta), 2)+opt.ParamTol)

		copy(s.theta, next)
		copy(s.r, nextR)
		s.ss = nextSS
		lambda = math.Max(lambda/10, minLambda)

		if ssConv && parConv {
			info = InfoBothConvergence
			break
		}
		if ssConv {
			info = InfoSumSquaresConvergence
			break
		}
		if parConv {
			info = InfoParamConvergence
			break
		}
	}

	for _, b := range s.beta(s.theta) {
		if !isFinite(b) {
			return nil, ErrNonFiniteParameters
		}
	}
	return s.output(iter, info), nil
}

func (s *solver) output(iter, info int) *Output {
	n, p := s.n, s.p
	beta := make([]float64, p)
	delta := make([]float64, n)
	copy(beta, s.beta(s.theta))
	copy(delta, s.delta(s.theta))

	xplus := make([]float64, n)
	floats.AddTo(xplus, s.data.X, delta)
	yfit := s.model(beta, xplus)
	epsRes := make([]float64, n)
	floats.SubTo(epsRes, yfit, s.data.Y)

	ssEps := floatsunrolled.SumSquares(s.r[:n])
	ssDelta := floatsunrolled.SumSquares(s.r[n:])

	resVar := math.NaN()
	if n > p {
		resVar = s.ss / float64(n-p)
	}

	cov, ok := s.covariance()
	if !ok {
		info += InfoSingularCovariance
	}
	sd := make([]float64, p)
	for i := 0; i < p; i++ {
		sd[i] = math.Sqrt(cov[i][i] * resVar)
	}

	return &Output{
		Beta:           beta,
		SDBeta:         sd,
		CovBeta:        cov,
		Delta:          delta,
		Eps:            epsRes,
		XPlus:          xplus,
		YFit:           yfit,
		SumSquare:      s.ss,
		SumSquareDelta: ssDelta,
		SumSquareEps:   ssEps,
		ResVar:         resVar,
		Iterations:     iter,
		Info:           info,
		StopReason:     StopReason(info),
	}
}

// covariance returns the parameter block of the inverse of J'J at the solution, which is the
// inverse of the Schur complement of the delta block
func (s *solver) covariance() ([][]float64, bool) {
	p := s.p
	cov := make([][]float64, p)
	for i := range cov {
		cov[i] = make([]float64, p)
	}

	schur, _, _ := s.normal().reduce(0)
	var chol mat.Cholesky
	var inv mat.SymDense
	if ok := chol.Factorize(schur); ok {
		if err := chol.InverseTo(&inv); err == nil {
			for i := 0; i < p; i++ {
				for j := 0; j < p; j++ {
					cov[i][j] = inv.At(i, j)
				}
			}
			return cov, true
		}
	}

	for i := range cov {
		for j := range cov[i] {
			cov[i][j] = math.NaN()
		}
	}
	return cov, false
}

// StopReason translates an info code into human readable stop reasons
func StopReason(info int) []string {
	var reasons []string
	switch info % InfoSingularCovariance {
	case InfoSumSquaresConvergence:
		reasons = append(reasons, "Sum of squares convergence")
	case InfoParamConvergence:
		reasons = append(reasons, "Parameter convergence")
	case InfoBothConvergence:
		reasons = append(reasons, "Both sum of squares and parameter convergence")
	case InfoIterationLimit:
		reasons = append(reasons, "Iteration limit reached")
	}
	if info >= InfoSingularCovariance {
		reasons = append(reasons, "Covariance matrix is singular")
	}
	return reasons
}
