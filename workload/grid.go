package workload

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

//go:embed grid.yaml
var defaultGridYAML []byte

// Grid is the set of parameter lists swept by the controller, plus the
// number of trials run at each point.
type Grid struct {
	RequestExponents []int `yaml:"request_exponents"`
	BytesPerSection  []int `yaml:"bytes_per_section"`
	Sections         []int `yaml:"sections"`
	WarmUps          int   `yaml:"warm_ups"`
	Repeats          int   `yaml:"repeats"`
}

// DefaultGrid returns the grid compiled into the binary.
func DefaultGrid() (Grid, error) {
	return parseGrid(defaultGridYAML)
}

func parseGrid(b []byte) (Grid, error) {
	var g Grid
	if err := yaml.Unmarshal(b, &g); err != nil {
		return g, fmt.Errorf("decode grid: %w", err)
	}

	if err := g.Validate(); err != nil {
		return g, err
	}

	return g, nil
}

// Validate checks that the grid describes at least one runnable point.
func (g Grid) Validate() error {
	if len(g.RequestExponents) == 0 || len(g.BytesPerSection) == 0 ||
		len(g.Sections) == 0 {
		return fmt.Errorf("grid has an empty parameter list")
	}

	if g.WarmUps < 0 || g.Repeats < 0 {
		return fmt.Errorf("warm-ups and repeats must not be negative")
	}

	for _, exp := range g.RequestExponents {
		// 10^18 is the largest power of ten that fits in an int64.
		if exp < 0 || exp > 18 {
			return fmt.Errorf("request exponent %d out of range", exp)
		}
	}

	for _, p := range g.Points() {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("grid point %+v: %w", p, err)
		}
	}

	return nil
}

// Trials is the number of trials run at each grid point.
func (g Grid) Trials() int {
	return g.WarmUps + g.Repeats
}

// Size is the number of grid points.
func (g Grid) Size() int {
	return len(g.RequestExponents) * len(g.BytesPerSection) * len(g.Sections)
}

// Points enumerates the Cartesian product of the grid lists. Requests vary
// slowest and sections fastest.
func (g Grid) Points() []Params {
	points := make([]Params, 0, g.Size())

	for _, exp := range g.RequestExponents {
		requests := pow10(exp)

		for _, bytes := range g.BytesPerSection {
			for _, sections := range g.Sections {
				points = append(points, Params{
					BytesPerSection: bytes,
					Sections:        sections,
					Requests:        requests,
				})
			}
		}
	}

	return points
}

func pow10(exp int) int {
	if exp <= 0 {
		return 1
	}

	n := 1
	for i := 0; i < exp && n <= math.MaxInt/10; i++ {
		n *= 10
	}

	return n
}
