// Package sqlite provides SQLite-backed persistence for the backup pass
// journal. The database lives in the bufstash data directory and uses WAL
// mode so a crashed process never corrupts the history.
package sqlite
