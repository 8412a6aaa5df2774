package donut

import (
	"bytes"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/patrickmn/go-cache"
	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	labelColor  = drawing.ColorWhite
	centerColor = drawing.ColorFromHex("333333")
	emptyColor  = drawing.ColorFromHex("e0e0e0")
)

// Renderer draws chart series as PNG donut charts
type Renderer struct {
	theme  *model.ChartTheme
	colors []drawing.Color
	cache  *cache.Cache
}

// Option configures a Renderer
type Option func(*Renderer)

// WithCache keeps rendered images for ttl, keyed by the series contents
func WithCache(ttl time.Duration) Option {
	return func(r *Renderer) {
		if ttl > 0 {
			r.cache = cache.New(ttl, 10*time.Minute)
		}
	}
}

// New creates a Renderer for theme
func New(theme *model.ChartTheme, opts ...Option) (*Renderer, error) {
	if theme == nil {
		theme = model.DefaultChartTheme()
	}
	if err := theme.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid chart theme")
	}

	r := &Renderer{theme: theme}
	for _, c := range theme.Colors {
		r.colors = append(r.colors, drawing.ColorFromHex(c[1:]))
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

var _ interfaces.ChartRenderer = (*Renderer)(nil)

// ContentType returns the MIME type of rendered images
func (r *Renderer) ContentType() string {
	return "image/png"
}

// Render draws series. Slices at or below the label threshold get no label
// and the GPA and student count are drawn in the centre.
func (r *Renderer) Render(series model.ChartSeries) ([]byte, error) {
	key := series.Key()
	if r.cache != nil {
		if img, found := r.cache.Get(key); found {
			return img.([]byte), nil
		}
	}

	counts := drawableCounts(series)
	graph := chart.DonutChart{
		Width:    r.theme.Width,
		Height:   r.theme.Height,
		Values:   r.values(counts),
		Elements: []chart.Renderable{centerText(series)},
	}
	// go-chart draws a lone slice as a plain circle using SliceStyle, not the
	// value's own style.
	if style, ok := r.soleSliceStyle(counts); ok {
		graph.SliceStyle = style
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, goerr.Wrap(err, "failed to render donut chart", goerr.V("series", key))
	}
	img := buf.Bytes()

	if r.cache != nil {
		r.cache.Set(key, img, cache.DefaultExpiration)
	}
	return img, nil
}

// drawableCounts returns the counts with negatives clamped to zero. A slice
// cannot have a negative size.
func drawableCounts(series model.ChartSeries) []int {
	counts := series.Values()
	for i, c := range counts {
		if c < 0 {
			counts[i] = 0
		}
	}
	return counts
}

func (r *Renderer) sliceStyle(i int) chart.Style {
	return chart.Style{
		FillColor:   r.colors[i],
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: 2,
		FontColor:   labelColor,
		FontSize:    14,
	}
}

var emptyStyle = chart.Style{FillColor: emptyColor, StrokeColor: drawing.ColorWhite}

// values returns one chart value per positive count. Nothing positive gives
// a single neutral ring.
func (r *Renderer) values(counts []int) []chart.Value {
	values := make([]chart.Value, 0, model.GradeBucketCount)
	for i, count := range counts {
		if count <= 0 {
			continue
		}
		label := ""
		if model.ShowLabel(counts, i) {
			label = model.GradeBuckets[i]
		}
		values = append(values, chart.Value{
			Value: float64(count),
			Label: label,
			Style: r.sliceStyle(i),
		})
	}

	if len(values) == 0 {
		return []chart.Value{{Value: 1, Style: emptyStyle}}
	}
	return values
}

// soleSliceStyle returns the style of the only slice when at most one count
// is positive
func (r *Renderer) soleSliceStyle(counts []int) (chart.Style, bool) {
	sole := -1
	for i, count := range counts {
		if count <= 0 {
			continue
		}
		if sole >= 0 {
			return chart.Style{}, false
		}
		sole = i
	}

	if sole < 0 {
		return emptyStyle, true
	}
	return r.sliceStyle(sole), true
}

func centerText(series model.ChartSeries) chart.Renderable {
	gpaText, studentsText := series.CenterText()

	return func(rd chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		cx, cy := canvasBox.Center()

		font := defaults.GetFont()
		if font == nil {
			if f, err := chart.GetDefaultFont(); err == nil {
				font = f
			}
		}
		rd.SetFont(font)
		rd.SetFontColor(centerColor)

		rd.SetFontSize(24)
		box := rd.MeasureText(gpaText)
		rd.Text(gpaText, cx-box.Width()/2, cy-10+box.Height()/2)

		rd.SetFontSize(16)
		box = rd.MeasureText(studentsText)
		rd.Text(studentsText, cx-box.Width()/2, cy+18+box.Height()/2)
	}
}
