package factorydata

import (
	"context"

	"github.com/muurk/factorydata/internal/registry"
)

// Field is the outcome of reading one registry entry.
type Field struct {
	Entry registry.Entry
	Value []byte
	Err   error
}

// ReadAll reads every backed entry in table order. Failures are recorded per
// field and do not stop the walk; only a cancelled ctx does.
func (a *Accessor) ReadAll(ctx context.Context) ([]Field, error) {
	var fields []Field
	for _, entry := range a.table.Entries() {
		if !entry.Backed() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fields, err
		}
		value, err := a.Get(ctx, entry.ID)
		fields = append(fields, Field{Entry: entry, Value: value, Err: err})
	}
	return fields, nil
}
