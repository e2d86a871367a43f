// Package registry holds the table that maps public factory-data identifiers
// to the board tool's internal key names.
//
// The built-in table is fixed at compile time and never mutated. Callers
// reach it only through [Table.Resolve], [Table.Lookup] and [Table.Entries]:
//
//	entry, ok := registry.Default().Resolve("serial")
//	if !ok {
//	    // unknown or not backed by storage
//	}
//	fmt.Println(entry.Key) // "sn"
//
// # Reserved identifiers
//
// An entry with an empty Key is known but not backed by the board tool
// (for example "onu-serial"). Lookup returns it so it can be listed;
// Resolve treats it as unknown.
package registry
