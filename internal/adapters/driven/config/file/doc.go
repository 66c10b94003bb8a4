// Package file implements driven.ConfigStore on a single TOML document.
//
// The document root is always a table. An exclusive advisory flock guards
// the file for the lifetime of the store; acquisition polls once per second
// with a bounded number of attempts and then fails with
// domain.ErrConfigLocked. Opens of the same path within one process share
// one locked handle through a Registry, re-reading the current content
// instead of re-locking.
package file
