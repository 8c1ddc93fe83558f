// Package server exposes the execution bridge and the DOM reference
// database as MCP servers over stdio.
//
// Two servers live here. Exec carries the five execution tools
// (run_jsx, get_document_info, get_selection, eval_expression, undo)
// plus a usage-guide resource; it talks to the application through the
// bridge. DOM carries the reference lookup tools (lookup_class,
// get_properties, search_dom, and friends) over a domdb.Store and
// needs no running application at all.
//
// Tool output is always a text block: indented JSON for structured
// results, or a short plain-text message when a lookup finds nothing.
// Execution failures are reported inside the JSON payload rather than
// as protocol errors, so agents can branch on the "success" field.
package server
