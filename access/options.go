package access

import (
	"github.com/bearlytools/ddlcodec/layout"
	"github.com/bearlytools/ddlcodec/mapping"
)

// config holds the configuration of a StructAccess.
type config struct {
	// registry interns the type metadata. If nil, a new Registry is used.
	registry *layout.Registry
	// version overrides the version of the description. 0 means the description's version.
	version mapping.Version
}

// Option configures a StructAccess.
type Option func(*config)

// WithRegistry shares a Registry between several StructAccess so that layouts of the same
// types hold the same metadata. This is required to compare enum and constant metadata by
// identity.
func WithRegistry(r *layout.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithVersion overrides the description language version, which decides if structs are
// rounded up to their alignment in the deserialized representation.
func WithVersion(v mapping.Version) Option {
	return func(c *config) {
		c.version = v
	}
}
