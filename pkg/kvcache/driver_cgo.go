//go:build cgo_sqlite

// CGO SQLite driver, selected with the cgo_sqlite build tag.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package kvcache

import (
	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

const (
	sqliteDriverName = "sqlite3"
	sqliteDriverType = "cgo"
)
