package dataset

import (
	"github.com/aouyang1/go-labfit/errs"
	mat_ "github.com/aouyang1/go-labfit/mat"
	"gonum.org/v1/gonum/mat"
)

// GridResult holds the coordinate meshes of a table and, optionally, its gradient
type GridResult struct {
	// X holds the column coordinate of every cell
	X *mat.Dense

	// Y holds the row coordinate of every cell
	Y *mat.Dense

	// DRow is the gradient of the values along the rows (Y direction)
	DRow *mat.Dense

	// DCol is the gradient of the values along the columns (X direction)
	DCol *mat.Dense
}

// Grid builds row and column coordinate meshes with the shape of the table. Centered
// coordinates are symmetric around zero. With gradient the numerical gradient of the values
// is computed along both axes.
func (d *Dataset) Grid(centered, gradient bool) (*GridResult, error) {
	return errs.Call("dataset.Grid", func() (*GridResult, error) {
		if err := d.loaded(); err != nil {
			return nil, err
		}
		rows := d.rows()
		m, n := len(rows), len(d.df.Names())
		if m == 0 || n == 0 {
			return nil, ErrNoData
		}

		xx, yy, err := mat_.Meshgrid(mat_.Axis(n, centered), mat_.Axis(m, centered))
		if err != nil {
			return nil, err
		}
		res := &GridResult{X: xx, Y: yy}
		if !gradient {
			return res, nil
		}

		values, err := mat_.NewDenseFromArray(rows)
		if err != nil {
			return nil, err
		}
		res.DRow, res.DCol = mat_.Gradient(values)
		return res, nil
	})
}
