package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"orbcloud/orbital"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
)

// radialLimitFactor sets the histogram range in units of the mean radius.
const radialLimitFactor = 3.0

// expectedHistogram integrates r^2 R(r)^2 over each bin with the midpoint
// rule and scales it to count particles.
func expectedHistogram(wf *orbital.Wavefunction, count, bins int, limit float64) []float64 {
	if bins < 1 || !(limit > 0) {
		return nil
	}
	h := make([]float64, bins)
	width := limit / float64(bins)
	for i := range h {
		r := (float64(i) + 0.5) * width
		rad := wf.Radial(r)
		h[i] = float64(count) * r * r * rad * rad * width
	}
	return h
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func renderReport(s *orbital.Sampler, ps []orbital.Particle, seed uint64, bins int) string {
	st := orbital.Summarize(ps)
	wf := s.Wavefunction()
	expected := wf.ExpectedRadius()
	limit := radialLimitFactor * expected

	relErr := 0.0
	if expected > 0 {
		relErr = (st.MeanRadius - expected) / expected
	}
	meanLine := fmt.Sprintf("%.4f (expected %.4f, %+.2f%%)", st.MeanRadius, expected, 100*relErr)
	if st.Count > 0 && (relErr > 0.05 || relErr < -0.05) {
		meanLine = warnStyle.Render(meanLine)
	}

	octants := make([]string, len(st.Octants))
	for i, n := range st.Octants {
		octants[i] = fmt.Sprint(n)
	}

	rows := []string{
		row("State", wf.State().String()),
		row("Bohr radius", fmt.Sprintf("%.4f", wf.A0())),
		row("Resolution", fmt.Sprint(s.Resolution())),
		row("Seed", fmt.Sprint(seed)),
		row("Particles", fmt.Sprint(st.Count)),
		row("Mean radius", meanLine),
		row("Std dev radius", fmt.Sprintf("%.4f", st.StdDevRadius)),
		row("Max radius", fmt.Sprintf("%.4f", st.MaxRadius)),
		row("Mean density", fmt.Sprintf("%.6g", st.MeanDensity)),
		row("Centroid", fmt.Sprintf("(%.3f, %.3f, %.3f)", st.Centroid.X, st.Centroid.Y, st.Centroid.Z)),
		row("Octants", strings.Join(octants, " ")),
	}

	parts := []string{
		headerStyle.Render(fmt.Sprintf("%s orbital cloud", wf.State())),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	}

	if bins > 0 && st.Count > 0 {
		hist := orbital.RadialHistogram(ps, bins, limit)
		analytic := expectedHistogram(wf, st.Count, bins, limit)
		chart := asciigraph.PlotMany([][]float64{hist, analytic},
			asciigraph.Height(12),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("radial distribution, 0 to %.2f (sampled vs analytic)", limit)),
		)
		parts = append(parts, graphStyle.Render(chart))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
