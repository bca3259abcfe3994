package rules

import "github.com/emilpriver/geni/internal/analyzer"

// NewDefaultRegistry returns a Registry with all built-in lint rules.
func NewDefaultRegistry() *analyzer.Registry {
	return analyzer.NewRegistry(
		NewCreateIndexRule(),
		NewAddColumnRule(),
		NewAddConstraintRule(),
		NewAlterColumnTypeRule(),
		NewSetNotNullRule(),
		NewDropTableRule(),
		NewVacuumFullRule(),
		NewLockTableRule(),
		NewRenameRule(),
	)
}
