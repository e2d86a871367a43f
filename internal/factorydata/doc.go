// Package factorydata reads and writes factory-provisioned device values
// through the board configuration tool.
//
// Callers use stable identifiers such as "base-mac", "serial" or
// "client-cert" and never see the tool's command syntax or its key names.
// Each call resolves the identifier in a [registry.Table], runs the tool once
// and interprets the first line it prints:
//
//	acc := factorydata.NewAccessor(factorydata.DefaultConfig(), nil, nil, logger)
//
//	serial, err := acc.Get(ctx, "serial")
//	if err != nil {
//	    return err
//	}
//
//	if err := acc.Set(ctx, "ssid", []byte("myNetwork")); err != nil {
//	    if factorydata.IsPermissionDenied(err) {
//	        // read-only field
//	    }
//	    return err
//	}
//
// # Tool contract
//
// Reads run "<tool> get <key>" and return the first output line with any
// trailing CR/LF removed, capped at [MaxValueLength] bytes. Empty output is
// reported as [KindInvalidResult].
//
// Writes run "<tool> set <key> <value>". The value is passed as a single
// argument, never through a shell. If the first output line contains
// "ERROR" the write was rejected and [KindInvalidArgument] is returned.
// A write whose rendered command would exceed [MaxCommandLength] bytes
// fails with [KindOutOfMemory] before the tool is started.
//
// # Errors
//
// Every failure is an *[Error] carrying a [Kind]. Use [KindOf], the Is*
// predicates, or errors.Is with the Err* sentinels to branch on it.
// Nothing is retried.
//
// # Concurrency
//
// An Accessor holds no mutable state and may be used from several goroutines.
// Concurrent writes to the same field race inside the board tool.
package factorydata
