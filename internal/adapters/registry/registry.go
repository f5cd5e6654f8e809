// Package registry wires the concrete adapters into the process registry.
// It lives apart from pkg/adapters so the adapters can embed adapters.Base
// without an import cycle.
package registry

import (
	"github.com/agentstation/edforge/internal/adapters/porofessor"
	"github.com/agentstation/edforge/internal/adapters/tftmeta"
	"github.com/agentstation/edforge/pkg/adapters"
)

// Configured returns the registry used by the running process.
// Order decides merge precedence.
func Configured() *adapters.Registry {
	return adapters.NewRegistry(
		tftmeta.New(),
		porofessor.New(),
	)
}
