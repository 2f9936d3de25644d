// Package storage persists large binary payloads outside the relational
// store. Each logical database owns one container, a directory under the
// configured storage root, holding blob files addressed by opaque locators
// cheap enough to store inline in a relational row.
package storage
