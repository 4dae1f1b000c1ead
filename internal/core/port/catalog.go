package port

import "actbot/internal/core/domain"

type Catalog interface {
	// Validate checks args against the schema of the named command and returns the normalized argument bag, or an
	// error wrapping one of the domain validation sentinels.
	Validate(name string, args domain.Args) (domain.Args, error)
	// Spec retrieves the catalog entry for a command kind.
	Spec(name string) (domain.CommandSpec, bool)
	// Names returns all catalog keys in sorted order.
	Names() []string
}
