// Package types defines the shared data model for the prism platform:
// reality spaces and objects, entanglement handles, HAL capability reports,
// the Engine, HAL, Provider, and KnowledgeStore interfaces, and the
// standard error values returned across package boundaries.
package types
