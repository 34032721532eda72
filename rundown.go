// Package rundown reads radio rundown XML exports, derives canonical file
// names from their original names, prunes them down to a whitelist of
// metadata fields, and flattens the broadcast hierarchy into tabular records.
//
// This package contains domain types, vocabularies and interfaces following
// Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., etree/, sqlite/).
package rundown
