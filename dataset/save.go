package dataset

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/go-gota/gota/dataframe"
)

// Save writes the dataset as comma separated values with a header line, creating the parent
// directories as needed
func (d *Dataset) Save(path string) error {
	return errs.Do("dataset.Save", func() error {
		if err := d.loaded(); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := d.df.WriteCSV(f, dataframe.WriteHeader(true)); err != nil {
			return err
		}
		slog.Info("file written", "path", path, "rows", d.Len(), "columns", len(d.Names()))
		return f.Close()
	})
}
