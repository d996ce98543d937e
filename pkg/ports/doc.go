// Package ports defines the driven-side interfaces of maestro. The
// facade depends only on these contracts; concrete adapters live under
// pkg/adapters.
package ports
