// Package tui implements the interactive factory-data browser behind
// "fdctl browse".
//
// The browser lists every registry entry in a table and reads values one at
// a time in the background, so only one board tool process runs at once.
// Sensitive values stay masked until revealed with "r".
package tui
