package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	"github.com/secmon-lab/gradeview/pkg/service/donut"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Chart holds chart rendering configuration
type Chart struct {
	ThemePath string
	CacheTTL  time.Duration
}

// Flags returns CLI flags for Chart configuration
func (c *Chart) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "chart-theme",
			Usage:       "YAML file with chart colors and size",
			Category:    "Chart",
			Sources:     cli.EnvVars("GRADEVIEW_CHART_THEME"),
			Destination: &c.ThemePath,
		},
		&cli.DurationFlag{
			Name:        "chart-cache-ttl",
			Usage:       "How long rendered charts are cached (0 disables the cache)",
			Category:    "Chart",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("GRADEVIEW_CHART_CACHE_TTL"),
			Destination: &c.CacheTTL,
		},
	}
}

// Configure creates the donut chart renderer
func (c *Chart) Configure() (*donut.Renderer, error) {
	theme := model.DefaultChartTheme()
	if c.ThemePath != "" {
		loaded, err := LoadChartThemeFromFile(c.ThemePath)
		if err != nil {
			return nil, err
		}
		theme = loaded
	}

	var opts []donut.Option
	if c.CacheTTL > 0 {
		opts = append(opts, donut.WithCache(c.CacheTTL))
	}

	renderer, err := donut.New(theme, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create chart renderer", goerr.V("theme", c.ThemePath))
	}
	return renderer, nil
}

// LogValue returns structured log value
func (c Chart) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("theme", c.ThemePath),
		slog.Duration("cacheTTL", c.CacheTTL),
	)
}

// LoadChartThemeFromFile loads a chart theme from a YAML file. Missing fields
// take the default theme's values.
func LoadChartThemeFromFile(path string) (*model.ChartTheme, error) {
	if path == "" {
		return nil, goerr.New("chart theme file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "chart theme file not found",
				goerr.V("path", path),
				goerr.T(model.ErrTagFileAccess))
		}
		return nil, goerr.Wrap(err, "failed to read chart theme file",
			goerr.V("path", path),
			goerr.T(model.ErrTagFileAccess))
	}

	var theme model.ChartTheme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, goerr.Wrap(err, "failed to parse chart theme",
			goerr.V("path", path),
			goerr.T(model.ErrTagInvalidTheme))
	}

	theme.FillDefaults()
	if err := theme.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid chart theme", goerr.V("path", path))
	}

	return &theme, nil
}
