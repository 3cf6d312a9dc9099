// Package app wires configuration, logging, the dataset store, services and
// HTTP routes into a runnable server with graceful shutdown.
package app
