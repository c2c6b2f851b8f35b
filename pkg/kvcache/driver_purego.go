//go:build !cgo_sqlite

package kvcache

import (
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	sqliteDriverName = "sqlite"
	sqliteDriverType = "purego"
)
