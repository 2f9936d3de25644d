// Package persistence owns the relational side of the capture catalog. It
// uses GORM as the ORM layer, composes the registered entity fragments into
// live table-backed types, and exposes the Database facade with its
// transactional scope. The package includes validation and logging for
// traceability and error handling.
package persistence
