package main

import (
	"fmt"

	"github.com/atlekbai/stateflow"
	"github.com/atlekbai/stateflow/definition"
)

// loadMachine reads the definition at path and builds a machine from it with the
// built-in registry.
func (a *app) loadMachine(path string, opts ...stateflow.Option) (*definition.Machine, *definition.Registry, error) {
	def, err := definition.Load(path)
	if err != nil {
		return nil, nil, err
	}

	registry := definition.NewRegistry(a.logger)
	opts = append([]stateflow.Option{
		stateflow.WithLogger(a.logger),
		stateflow.WithExportTimeout(a.cfg.ExportTimeout),
	}, opts...)

	m, err := definition.Build(def, registry, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build machine from %s: %w", path, err)
	}
	return m, registry, nil
}
