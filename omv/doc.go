// Package omv parses Adobe Object Model Viewer (OMV) XML exports and
// builds the SQLite reference database that package domdb serves.
//
// An OMV export is a single XML file per documentation source: a <map>
// of suite navigation entries and a <package> of classdefs carrying
// properties, methods, and parameters. Parsing normalizes the markup's
// mixed-content descriptions to plain text and flattens the datatype
// union forms ("varies=any", arrays, cross-file hrefs) into the
// columns the database stores.
//
// Building is destructive: the target database file is recreated from
// scratch on every build, including the FTS5 search index and the
// db_meta provenance rows.
package omv
