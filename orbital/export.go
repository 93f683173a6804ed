package orbital

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a format name or a file path and returns its format.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(filepath.Ext(s), "."))
	if name == "" {
		name = strings.ToLower(s)
	}
	switch name {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q (json, csv, yaml)", s)
}

// CloudExport is a generated cloud with the configuration that produced it.
type CloudExport struct {
	ID         string     `json:"id" yaml:"id"`
	State      State      `json:"state" yaml:"state"`
	Label      string     `json:"label" yaml:"label"`
	Scale      float64    `json:"scale" yaml:"scale"`
	Resolution int        `json:"resolution" yaml:"resolution"`
	GridLimit  float64    `json:"grid_limit" yaml:"grid_limit"`
	Seed       uint64     `json:"seed" yaml:"seed"`
	Created    time.Time  `json:"created" yaml:"created"`
	Points     []Particle `json:"points" yaml:"points"`
}

// NewCloudExport wraps points with the sampler settings and a fresh ID.
func NewCloudExport(s *Sampler, seed uint64, points []Particle) *CloudExport {
	st := s.Wavefunction().State()
	return &CloudExport{
		ID:         uuid.NewString(),
		State:      st,
		Label:      st.String(),
		Scale:      s.Scale(),
		Resolution: s.Resolution(),
		GridLimit:  s.GridLimit(),
		Seed:       seed,
		Created:    time.Now().UTC(),
		Points:     points,
	}
}

// Write encodes the cloud in format f.
func (c *CloudExport) Write(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return c.WriteJSON(w)
	case FormatCSV:
		return c.WriteCSV(w)
	case FormatYAML:
		return c.WriteYAML(w)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// WriteJSON writes the cloud as indented JSON.
func (c *CloudExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// WriteYAML writes the cloud as a YAML document.
func (c *CloudExport) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("YAML encoding failed: %w", err)
	}
	return enc.Close()
}

// WriteCSV writes one row per particle: x,y,z,r,theta,phi,density.
func (c *CloudExport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "z", "r", "theta", "phi", "density"}); err != nil {
		return fmt.Errorf("CSV header failed: %w", err)
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, p := range c.Points {
		row := []string{
			f(p.X), f(p.Y), f(p.Z),
			f(p.Spherical.R), f(p.Spherical.Theta), f(p.Spherical.Phi),
			f(p.Density),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("CSV row failed: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
