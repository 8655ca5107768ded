// Package domain holds the value types shared across the tessera engine and
// its adapters: invocations and placeholders found by the scanners, the
// documents they live in, and the diagnostics raised while expanding them.
//
// Everything here is plain data. Entities are created fresh per expansion
// call and discarded with its result; nothing persists across documents.
package domain
