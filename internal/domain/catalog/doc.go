// Package catalog defines the entity kinds managed by the capture catalog:
// users, tags, experiments and acquisitions captured by the SWIR/VNIR
// dual-sensor instrument.
//
// Every kind is composed from shared field groups (SurrogateID, Stamped) by
// embedding, and is persisted through the entity registry under a table name
// derived from the kind's logical name.
package catalog
