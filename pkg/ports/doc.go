// Package ports declares the driven-side interfaces of the chatflow
// engine: session storage and optional distributed locking.
package ports
