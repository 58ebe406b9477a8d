// Package store defines the repository interfaces and error taxonomy for
// data persistence. Implementations live in internal/platform; services
// depend only on these interfaces.
package store
