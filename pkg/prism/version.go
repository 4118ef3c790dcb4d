// Package prism carries module-level metadata.
package prism

// Version is the prism module version.
const Version = "0.3.0"
