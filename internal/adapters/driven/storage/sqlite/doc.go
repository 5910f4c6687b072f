// Package sqlite stores the knowledge base and the review queue in a local
// SQLite database.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation, so the binary
// needs no CGO. The schema lives in versioned migrations under migrations/
// and is applied on open.
//
// By default the database is ~/.content-automation/data/knowledge.db.
package sqlite
