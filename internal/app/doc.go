// Package app wires the capture catalog's use cases for the shell: user and
// tag management, experiment creation and acquisition ingestion. Every
// service operates through the Database facade's transaction scopes.
package app
