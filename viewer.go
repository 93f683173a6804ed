// viewer.go
package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"orbcloud/orbital"
)

const (
	minViewerParticles = 500
	maxViewerParticles = 400000
	rotateStep         = 0.15
)

// CloudRenderer holds a sampled cloud and the view state used to draw it.
type CloudRenderer struct {
	sampler                *orbital.Sampler
	particles              []orbital.Particle
	rotated                []orbital.Point3D
	seed                   uint64
	count, workers         int
	angleX, angleY, angleZ float64
	autoRotate             bool
	frameCount             int
	style                  int
	extent                 float64
	maxDensity             float64
	log                    *logrus.Entry
}

// NewCloudRenderer samples the initial cloud for s using cfg.
func NewCloudRenderer(ctx context.Context, s *orbital.Sampler, cfg *Config, log *logrus.Entry) (*CloudRenderer, error) {
	r := &CloudRenderer{
		sampler:    s,
		seed:       cfg.Seed(),
		count:      cfg.Sampling.Particles,
		workers:    cfg.Workers(),
		autoRotate: cfg.Viewer.AutoRotate,
		style:      cfg.Viewer.Style,
		log:        log,
	}
	if err := r.resample(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (cr *CloudRenderer) resample(ctx context.Context) error {
	start := time.Now()
	ps, err := orbital.Generate(ctx, cr.sampler, cr.count, cr.workers, cr.seed)
	if err != nil {
		return fmt.Errorf("resample failed: %w", err)
	}
	cr.particles = ps
	cr.rotated = make([]orbital.Point3D, len(ps))

	cr.maxDensity = 0
	for _, p := range ps {
		if p.Density > cr.maxDensity {
			cr.maxDensity = p.Density
		}
	}
	// Most of the cloud sits within twice the mean radius.
	cr.extent = 2 * cr.sampler.Wavefunction().ExpectedRadius()

	cr.log.WithFields(logrus.Fields{
		"particles": len(ps),
		"seed":      cr.seed,
		"elapsed":   time.Since(start),
	}).Debug("cloud resampled")
	return nil
}

func (cr *CloudRenderer) update() {
	if cr.autoRotate {
		cr.angleX += 0.008
		cr.angleY += 0.012
		cr.angleZ += 0.006
	}
	cr.frameCount++
}

// handleKey applies a key press. It reports whether the viewer should exit
// and whether the cloud has to be regenerated.
func (cr *CloudRenderer) handleKey(ev *tcell.EventKey) (quit, regenerate bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, false
	case tcell.KeyUp:
		cr.angleX -= rotateStep
	case tcell.KeyDown:
		cr.angleX += rotateStep
	case tcell.KeyLeft:
		cr.angleY -= rotateStep
	case tcell.KeyRight:
		cr.angleY += rotateStep
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true, false
		case 'r':
			cr.angleX, cr.angleY, cr.angleZ = 0, 0, 0
		case 'a', ' ':
			cr.autoRotate = !cr.autoRotate
		case 's', 'S':
			cr.style = (cr.style + 1) % len(shadingStyles)
		case 'n':
			seed, err := orbital.RandomSeed()
			if err != nil {
				cr.log.WithError(err).Warn("random seed unavailable, stepping seed")
				seed = cr.seed + 1
			}
			cr.seed = seed
			return false, true
		case '+', '=':
			if cr.count < maxViewerParticles {
				cr.count = min(cr.count*2, maxViewerParticles)
				return false, true
			}
		case '-', '_':
			if cr.count > minViewerParticles {
				cr.count = max(cr.count/2, minViewerParticles)
				return false, true
			}
		}
	}
	return false, false
}

// Multiple shading character sets for different visual styles
var shadingStyles = [][]rune{
	// Heavy to light blocks
	{'█', '▉', '▊', '▋', '▌', '▍', '▎', '▏', '░', '▒', '▓', '·', '˙'},
	// Circle variations
	{'●', '◉', '◎', '○', '◌', '◦', '∘', '·', '˙', '.'},
	// ASCII traditional
	{'@', '#', '&', '%', '$', 'W', 'M', 'H', '8', '0', 'Q', 'O', 'o', '*', '+', '=', '-', '^', ':', '.'},
	// Dots and marks
	{'▪', '▫', '■', '□', '●', '○', '▲', '△', '♦', '◊', '▬', '▭', '·', '˙'},
}

// getDepthCharWithStyle maps depth 1 (nearest) to the heaviest glyph.
func getDepthCharWithStyle(depth float64, style int) rune {
	depth = clamp01(depth)
	chars := shadingStyles[style%len(shadingStyles)]
	idx := int((1 - depth) * float64(len(chars)-1))
	return chars[idx]
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Three-stop palettes indexed by azimuthal quantum number.
var palettes = [][3]colorful.Color{
	{rgb(120, 80, 255), rgb(255, 150, 50), rgb(50, 255, 120)}, // s: purple, orange, green
	{rgb(50, 100, 255), rgb(50, 255, 200), rgb(255, 255, 50)}, // p: blue, cyan, yellow
	{rgb(255, 50, 80), rgb(255, 50, 255), rgb(80, 150, 255)},  // d: red, magenta, blue
	{rgb(255, 50, 150), rgb(150, 255, 50), rgb(50, 150, 255)}, // f and up
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// densityColor blends the palette for l by density fraction t and darkens it
// towards black for far points.
func densityColor(t, depth float64, l int) tcell.Color {
	t, depth = clamp01(t), clamp01(depth)
	stops := palettes[min(l, len(palettes)-1)]

	var c colorful.Color
	if t < 0.5 {
		c = stops[0].BlendLab(stops[1], t*2)
	} else {
		c = stops[1].BlendLab(stops[2], (t-0.5)*2)
	}
	c = colorful.Color{}.BlendRgb(c, 0.2+0.8*depth)

	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// projectionScale returns screen cells per unit length. Terminal cells are
// about twice as tall as wide, so x is stretched by two at draw time.
func projectionScale(w, h int, extent float64) float64 {
	if extent <= 0 {
		extent = 1
	}
	half := math.Min(float64(h-4)/2, float64(w)/4)
	return half / extent
}

func (cr *CloudRenderer) render(s tcell.Screen, w, h int) {
	state := cr.sampler.Wavefunction().State()
	header := fmt.Sprintf("%s orbital | Arrows:rotate A:auto N:new S:style +/-:particles R:reset Q:quit", state)
	drawText(s, 1, 1, tcell.StyleDefault.Foreground(tcell.ColorWhite), header)

	q := orbital.Rotation(cr.angleX, cr.angleY, cr.angleZ)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for i, p := range cr.particles {
		rot := p.Point3D.RotateBy(q)
		cr.rotated[i] = rot
		minZ = math.Min(minZ, rot.Z)
		maxZ = math.Max(maxZ, rot.Z)
	}
	depthRange := maxZ - minZ
	if depthRange == 0 {
		depthRange = 1
	}

	scale := projectionScale(w, h, cr.extent)
	centerX, centerY := float64(w)/2, float64(h)/2

	type cell struct {
		z       float64
		density float64
		set     bool
	}
	cells := make([]cell, w*h)

	for i, rot := range cr.rotated {
		sx := int(rot.X*scale*2 + centerX)
		sy := int(-rot.Y*scale + centerY)
		if sx < 0 || sx >= w || sy < 3 || sy >= h-2 {
			continue
		}
		c := &cells[sy*w+sx]
		if !c.set || rot.Z > c.z {
			*c = cell{z: rot.Z, density: cr.particles[i].Density, set: true}
		}
	}

	for idx, c := range cells {
		if !c.set {
			continue
		}
		depth := (c.z - minZ) / depthRange
		t := 0.0
		if cr.maxDensity > 0 {
			t = math.Sqrt(c.density / cr.maxDensity)
		}
		color := densityColor(t, depth, state.L)
		s.SetContent(idx%w, idx/w, getDepthCharWithStyle(depth, cr.style), nil, tcell.StyleDefault.Foreground(color))
	}

	info := fmt.Sprintf("%s | Points: %d | Seed: %d | Style: %d | Frame: %d",
		cr.sampler.Wavefunction(), len(cr.particles), cr.seed, cr.style+1, cr.frameCount)
	drawText(s, 1, h-2, tcell.StyleDefault.Foreground(tcell.ColorDarkGray), info)
}

// runViewer drives s until the user quits or ctx is cancelled. The screen
// must already be initialised.
func runViewer(ctx context.Context, s tcell.Screen, cr *CloudRenderer, frame time.Duration) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go s.ChannelEvents(events, quit)

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				exit, regenerate := cr.handleKey(ev)
				if exit {
					return nil
				}
				if regenerate {
					if err := cr.resample(ctx); err != nil {
						return err
					}
				}
			case *tcell.EventResize:
				s.Sync()
			}
		case <-ticker.C:
			cr.update()
			s.Clear()
			w, h := s.Size()

			if w <= 15 || h <= 8 {
				continue
			}

			cr.render(s, w, h)
			s.Show()
		}
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
}
