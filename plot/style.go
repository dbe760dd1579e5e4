package plot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aouyang1/go-labfit/errs"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidColor    = fmt.Errorf("invalid hex color, %w", errs.ErrInvalidArgument)
	ErrInvalidFontSize = fmt.Errorf("font size must be positive, %w", errs.ErrInvalidArgument)
	ErrInvalidSize     = fmt.Errorf("figure size must be positive, %w", errs.ErrInvalidArgument)
	ErrStyleFile       = fmt.Errorf("style file, %w", errs.ErrNotFound)
	ErrStyleParse      = fmt.Errorf("unable to parse style, %w", errs.ErrInvalidArgument)
)

// Colors are hex RGB colors, e.g. "#1F2020"
type Colors struct {
	Title      string `yaml:"title" json:"title"`
	XAxis      string `yaml:"x_axis" json:"x_axis"`
	YAxis      string `yaml:"y_axis" json:"y_axis"`
	Ticks      string `yaml:"ticks" json:"ticks"`
	Grid       string `yaml:"grid" json:"grid"`
	Background string `yaml:"background" json:"background"`
}

// FontSizes are in points
type FontSizes struct {
	Title  float64 `yaml:"title" json:"title"`
	XAxis  float64 `yaml:"x_axis" json:"x_axis"`
	YAxis  float64 `yaml:"y_axis" json:"y_axis"`
	Ticks  float64 `yaml:"ticks" json:"ticks"`
	Legend float64 `yaml:"legend" json:"legend"`
}

// Style controls the look of a figure. Width and Height are in inches.
type Style struct {
	Colors    Colors    `yaml:"colors" json:"colors"`
	FontSizes FontSizes `yaml:"font_sizes" json:"font_sizes"`
	Width     float64   `yaml:"width" json:"width"`
	Height    float64   `yaml:"height" json:"height"`
}

func DefaultStyle() *Style {
	return &Style{
		Colors: Colors{
			Title:      "#1F2020",
			XAxis:      "#1F2020",
			YAxis:      "#1F2020",
			Ticks:      "#1F2020",
			Grid:       "#ACACAC",
			Background: "#FFFFFF",
		},
		FontSizes: FontSizes{
			Title:  14,
			XAxis:  12,
			YAxis:  12,
			Ticks:  10,
			Legend: 10,
		},
		Width:  8,
		Height: 5,
	}
}

// LoadStyle reads a YAML style file. Keys that are not set keep their default value and
// unknown keys are rejected.
func LoadStyle(path string) (*Style, error) {
	return errs.Call("plot.LoadStyle", func() (*Style, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%s, %w", path, ErrStyleFile)
			}
			return nil, err
		}
		return ParseStyle(content)
	})
}

// ParseStyle decodes a YAML style merged over the defaults
func ParseStyle(content []byte) (*Style, error) {
	style := DefaultStyle()
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(style); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s, %w", err.Error(), ErrStyleParse)
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	return style, nil
}

// Validate checks every color parses and sizes are positive
func (s *Style) Validate() error {
	colors := map[string]string{
		"title":      s.Colors.Title,
		"x_axis":     s.Colors.XAxis,
		"y_axis":     s.Colors.YAxis,
		"ticks":      s.Colors.Ticks,
		"grid":       s.Colors.Grid,
		"background": s.Colors.Background,
	}
	for name, c := range colors {
		if _, err := parseColor(c); err != nil {
			return fmt.Errorf("%s color, %w", name, err)
		}
	}
	sizes := map[string]float64{
		"title":  s.FontSizes.Title,
		"x_axis": s.FontSizes.XAxis,
		"y_axis": s.FontSizes.YAxis,
		"ticks":  s.FontSizes.Ticks,
		"legend": s.FontSizes.Legend,
	}
	for name, size := range sizes {
		if size <= 0 {
			return fmt.Errorf("%s font size %g, %w", name, size, ErrInvalidFontSize)
		}
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%gx%g, %w", s.Width, s.Height, ErrInvalidSize)
	}
	return nil
}

// parseColor parses "#RRGGBB" or "RRGGBB"
func parseColor(hex string) (drawing.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 || strings.Trim(h, "0123456789abcdefABCDEF") != "" {
		return drawing.Color{}, fmt.Errorf("%q, %w", hex, ErrInvalidColor)
	}
	return drawing.ColorFromHex(h), nil
}

// mustColor parses a color already checked by Validate
func mustColor(hex string) drawing.Color {
	c, err := parseColor(hex)
	if err != nil {
		return drawing.ColorBlack
	}
	return c
}
