// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI and the directory watcher consume
// these; the services under internal/core/services implement them.
package driving
