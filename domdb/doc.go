// Package domdb is the read-only query layer over the scripting DOM
// reference database built by package omv.
//
// The database is a flat relational snapshot of one or more object
// model sources (the application DOM, core JavaScript, ScriptUI):
// suites, classes, properties, methods, and parameters, plus an FTS5
// index over all entity names and descriptions. Every query can be
// narrowed to a single source key; without a filter, results from all
// sources come back side by side so name collisions (Window, Group,
// Panel, Event) stay visible.
//
// A Store wraps a fixed-size connection pool opened read-only; it is
// safe for concurrent use and never mutates the database.
package domdb
