// Package formdef loads declarative form definitions (YAML or JSON) and
// turns them into boxes. Definitions can also be derived from an OpenAPI
// component schema.
package formdef
