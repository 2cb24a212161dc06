// Package workitem contains the storage types generated from the bundled work
// item schema. Each active declaration yields a record struct, a
// structure-of-arrays storage type, a per-slot view and a work queue
// constructor, all parametrized over the execution context.
package workitem

//go:generate go run github.com/achilleasa/wavefront generate --out workitem_gen.go
