package dataset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const DefaultDelimiter = '\t'

var (
	ErrInvalidDelimiter = fmt.Errorf("invalid delimiter, %w", errs.ErrInvalidArgument)
	ErrMissingNames     = fmt.Errorf("names are required when the file has no header, %w", errs.ErrInvalidArgument)
	ErrNegativeSkipRow  = fmt.Errorf("negative row to skip, %w", errs.ErrInvalidArgument)
	ErrParse            = fmt.Errorf("unable to parse file, %w", errs.ErrInvalidArgument)
	ErrFileNotFound     = fmt.Errorf("data file, %w", errs.ErrNotFound)
)

// LoadOptions configures how a delimited file is parsed
type LoadOptions struct {
	// Delimiter separates the fields of each line. Defaults to a tab.
	Delimiter rune

	// Header indicates the first parsed line holds the column names
	Header bool

	// Names overrides the column names. Required when Header is false.
	Names []string

	// SkipRows lists 0-based physical line numbers dropped before parsing
	SkipRows []int
}

// NewDefaultLoadOptions reads tab separated files with a header line
func NewDefaultLoadOptions() *LoadOptions {
	return &LoadOptions{
		Delimiter: DefaultDelimiter,
		Header:    true,
	}
}

// Validate returns a copy of the options with defaults filled in
func (l *LoadOptions) Validate() (*LoadOptions, error) {
	if l == nil {
		return NewDefaultLoadOptions(), nil
	}
	res := *l
	if res.Delimiter == 0 {
		res.Delimiter = DefaultDelimiter
	}
	switch res.Delimiter {
	case '"', '\r', '\n', utf8.RuneError:
		return nil, fmt.Errorf("%q, %w", res.Delimiter, ErrInvalidDelimiter)
	}
	if !res.Header && len(res.Names) == 0 {
		return nil, ErrMissingNames
	}
	for _, r := range res.SkipRows {
		if r < 0 {
			return nil, fmt.Errorf("row %d, %w", r, ErrNegativeSkipRow)
		}
	}
	return &res, nil
}

// Load reads a delimited text file into a dataset. Every column is parsed as float64 and cells
// that cannot be parsed become NaN. Files ending in .gz, .zst, .zstd or .lz4 are decompressed.
func Load(path string, opt *LoadOptions) (*Dataset, error) {
	return errs.Call("dataset.Load", func() (*Dataset, error) {
		opt, err := opt.Validate()
		if err != nil {
			return nil, err
		}

		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%s, %w", path, ErrFileNotFound)
			}
			return nil, err
		}
		defer f.Close()

		r, closer, err := decompress(path, f)
		if err != nil {
			return nil, err
		}
		defer closer()

		content, err := dropLines(r, opt.SkipRows)
		if err != nil {
			return nil, err
		}

		ds, err := parse(path, content, opt)
		if err != nil {
			return nil, err
		}
		slog.Info("file read", "path", path, "rows", ds.Len(), "columns", len(ds.Names()))
		return ds, nil
	})
}

// decompress wraps r with a decoder chosen by the file extension
func decompress(path string, r io.Reader) (io.Reader, func(), error) {
	noop := func() {}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, noop, fmt.Errorf("gzip header, %w", ErrParse)
		}
		return zr, func() { zr.Close() }, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, noop, err
		}
		return zr, zr.Close, nil
	case ".lz4":
		return lz4.NewReader(r), noop, nil
	}
	return r, noop, nil
}

// dropLines removes the given physical lines from r
func dropLines(r io.Reader, skip []int) ([]byte, error) {
	if len(skip) == 0 {
		return io.ReadAll(r)
	}
	drop := make(map[int]struct{}, len(skip))
	for _, i := range skip {
		drop[i] = struct{}{}
	}

	var buf bytes.Buffer
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for i := 0; scanner.Scan(); i++ {
		if _, skipped := drop[i]; skipped {
			continue
		}
		buf.Write(scanner.Bytes())
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parse(path string, content []byte, opt *LoadOptions) (*Dataset, error) {
	numFields, err := countFields(content, opt.Delimiter)
	if err != nil {
		return nil, err
	}
	if len(opt.Names) > 0 && len(opt.Names) != numFields {
		return nil, fmt.Errorf("%d names for %d columns, %w", len(opt.Names), numFields, ErrNamesMismatch)
	}

	loadOpts := []dataframe.LoadOption{
		dataframe.WithDelimiter(opt.Delimiter),
		dataframe.HasHeader(opt.Header),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
	}
	if len(opt.Names) > 0 {
		loadOpts = append(loadOpts, dataframe.Names(opt.Names...))
	}

	df := dataframe.ReadCSV(bytes.NewReader(content), loadOpts...)
	if df.Err != nil {
		return nil, fmt.Errorf("%s: %s, %w", path, df.Err.Error(), ErrParse)
	}
	return &Dataset{path: path, df: &df}, nil
}

// countFields returns the number of fields on the first non blank line
func countFields(content []byte, delim rune) (int, error) {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return strings.Count(line, string(delim)) + 1, nil
	}
	return 0, fmt.Errorf("no lines to read, %w", ErrParse)
}
