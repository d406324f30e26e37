package plot

import (
	"fmt"
	"image/color"
	"io"

	"github.com/okian/kmeans/internal/domain/cluster"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngConfig)

type pngConfig struct {
	title  string
	width  vg.Length
	height vg.Length
}

// WithTitle sets the plot title.
func WithTitle(title string) PNGOption {
	return func(c *pngConfig) {
		c.title = title
	}
}

// WithSize sets the image size in inches.
func WithSize(width, height float64) PNGOption {
	return func(c *pngConfig) {
		if width > 0 && height > 0 {
			c.width = vg.Length(width) * vg.Inch
			c.height = vg.Length(height) * vg.Inch
		}
	}
}

func newPNGConfig(opts ...PNGOption) pngConfig {
	c := pngConfig{
		title:  "k-means clusters",
		width:  8 * vg.Inch,
		height: 8 * vg.Inch,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// SavePNG writes a scatter plot of clusters to path.
func SavePNG(clusters []*cluster.Cluster, path string, opts ...PNGOption) error {
	cfg := newPNGConfig(opts...)
	p, err := scatter(clusters, cfg)
	if err != nil {
		return err
	}
	if err := p.Save(cfg.width, cfg.height, path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, path, err)
	}
	return nil
}

// WritePNG writes a PNG scatter plot of clusters to w.
func WritePNG(clusters []*cluster.Cluster, w io.Writer, opts ...PNGOption) error {
	cfg := newPNGConfig(opts...)
	p, err := scatter(clusters, cfg)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(cfg.width, cfg.height, "png")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// scatter builds one scatter series per cluster and a cross marker at every
// centroid.
func scatter(clusters []*cluster.Cluster, cfg pngConfig) (*plot.Plot, error) {
	if len(clusters) == 0 {
		return nil, ErrNoClusters
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(plotter.NewGrid())

	colors := generateColors(len(clusters))
	centroids := make(plotter.XYs, 0, len(clusters))
	for i, c := range clusters {
		centroid := c.Centroid()
		centroids = append(centroids, plotter.XY{X: centroid.X, Y: centroid.Y})
		if c.IsEmpty() {
			continue
		}

		pts := make(plotter.XYs, 0, c.Len())
		for pt := range c.Points() {
			pts = append(pts, plotter.XY{X: pt.X, Y: pt.Y})
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("%w: cluster %d: %w", ErrRender, i, err)
		}
		s.GlyphStyle.Color = colors[i]
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("cluster %d (%c)", i, SymbolFor(i)), s)
	}

	marks, err := plotter.NewScatter(centroids)
	if err != nil {
		return nil, fmt.Errorf("%w: centroids: %w", ErrRender, err)
	}
	marks.GlyphStyle.Color = color.Black
	marks.GlyphStyle.Shape = draw.CrossGlyph{}
	marks.GlyphStyle.Radius = vg.Points(6)
	p.Add(marks)
	p.Legend.Add("centroid", marks)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// generateColors creates a palette of distinct colors for clusters.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := range n {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
