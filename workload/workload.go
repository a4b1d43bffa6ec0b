// Package workload describes the shape of the benchmark sweep: the execution
// variants under comparison, the parameter grid they are run over, and the
// seeds shared by every variant of a trial.
package workload

import (
	"fmt"
)

// Variant identifies an execution strategy of the workload executable.
type Variant uint8

const (
	Single Variant = iota
	Multi
	Batch
)

var variantTokens = map[Variant]string{
	Single: "single",
	Multi:  "multi",
	Batch:  "batch",
}

// Variants returns every variant in the fixed order they are run in.
func Variants() []Variant {
	return []Variant{Single, Multi, Batch}
}

// String returns the token passed verbatim to the workload executable.
func (v Variant) String() string {
	if token, ok := variantTokens[v]; ok {
		return token
	}

	return fmt.Sprintf("variant(%d)", uint8(v))
}

// Params is the workload shape handed to the executable.
type Params struct {
	BytesPerSection int
	Sections        int
	Requests        int
}

// Validate reports whether every field is positive.
func (p Params) Validate() error {
	switch {
	case p.BytesPerSection <= 0:
		return fmt.Errorf("bytes per section must be positive, got %d",
			p.BytesPerSection)
	case p.Sections <= 0:
		return fmt.Errorf("sections must be positive, got %d", p.Sections)
	case p.Requests <= 0:
		return fmt.Errorf("requests must be positive, got %d", p.Requests)
	}

	return nil
}
