// Package persistence stores register snapshots as JSON files so that a
// read pass can be compared with, or restored to, a later device state.
package persistence
