//go:build cgo

package main

// The sqlite3 backend needs cgo.
import _ "github.com/mattn/go-sqlite3"
