// Package domain contains the core domain model for the symbol importer.
//
// The domain is transport- and persistence-agnostic: it does not depend on
// HTTP clients, subprocess execution, or the filesystem. Infra/adapters map
// into/from these types.
package domain
