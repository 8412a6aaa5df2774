package model

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ChartTheme controls the appearance of the rendered donut chart
type ChartTheme struct {
	Colors []string `yaml:"colors"` // one "#rrggbb" colour per grade bucket
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
}

// DefaultChartTheme returns the built-in palette, blue for A grades through
// violet for C grades and red for DFW
func DefaultChartTheme() *ChartTheme {
	return &ChartTheme{
		Colors: []string{
			"#0d47a1", // A+
			"#1565c0", // A
			"#1e88e5", // A-
			"#42a5f5", // B+
			"#64b5f6", // B
			"#90caf9", // B-
			"#c5cae9", // C+
			"#b39ddb", // C
			"#9575cd", // C-
			"#ef5350", // DFW
		},
		Width:  512,
		Height: 512,
	}
}

// Validate validates the theme
func (t *ChartTheme) Validate() error {
	if len(t.Colors) != GradeBucketCount {
		return goerr.New("theme must define one colour per grade bucket",
			goerr.V("expected", GradeBucketCount),
			goerr.V("actual", len(t.Colors)),
			goerr.T(ErrTagInvalidTheme))
	}
	for i, c := range t.Colors {
		if !hexColorPattern.MatchString(c) {
			return goerr.New("invalid colour",
				goerr.V("index", i),
				goerr.V("bucket", GradeBuckets[i]),
				goerr.V("colour", c),
				goerr.T(ErrTagInvalidTheme))
		}
	}
	if t.Width < 64 || t.Width > 4096 {
		return goerr.New("width must be between 64 and 4096",
			goerr.V("width", t.Width),
			goerr.T(ErrTagInvalidTheme))
	}
	if t.Height < 64 || t.Height > 4096 {
		return goerr.New("height must be between 64 and 4096",
			goerr.V("height", t.Height),
			goerr.T(ErrTagInvalidTheme))
	}
	return nil
}

// FillDefaults sets unset fields from the default theme
func (t *ChartTheme) FillDefaults() {
	def := DefaultChartTheme()
	if len(t.Colors) == 0 {
		t.Colors = def.Colors
	}
	if t.Width == 0 {
		t.Width = def.Width
	}
	if t.Height == 0 {
		t.Height = def.Height
	}
}
