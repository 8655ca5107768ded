// Package ports defines the interfaces between the tessera core and its
// adapters, plus reusable contract tests that pin their behavior for every
// implementation.
package ports
