// Package app defines the contracts the dashboard consumes (snapshot
// source, push stream) and the snapshot loading use case built on them.
// Infrastructure packages provide the implementations.
package app
