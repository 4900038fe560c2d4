// Package oracle resolves the system dark-mode preference through an
// ordered chain of probes.
package oracle

// Probe is a single source of the dark-mode preference. Query returns the
// preference and whether the probe could determine it at all.
type Probe interface {
	Name() string
	Query() (dark bool, ok bool)
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc struct {
	ProbeName string
	Fn        func() (bool, bool)
}

func (p ProbeFunc) Name() string { return p.ProbeName }

func (p ProbeFunc) Query() (bool, bool) {
	if p.Fn == nil {
		return false, false
	}
	return p.Fn()
}

// Chain queries probes in order and takes the first conclusive answer.
type Chain struct {
	probes []Probe
}

// NewChain creates a chain over the given probes. Order matters: earlier
// probes are authoritative when they answer.
func NewChain(probes ...Probe) *Chain {
	return &Chain{probes: probes}
}

// Dark returns the current dark-mode preference. When no probe answers it
// defaults to false (light), never failing. Safe for concurrent use as long
// as the probes are.
func (c *Chain) Dark() bool {
	for _, p := range c.probes {
		if dark, ok := p.Query(); ok {
			return dark
		}
	}
	return false
}

// Resolved returns the name of the first probe that currently answers, or
// "" when none does.
func (c *Chain) Resolved() string {
	for _, p := range c.probes {
		if _, ok := p.Query(); ok {
			return p.Name()
		}
	}
	return ""
}
