package cli

import (
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/spf13/pflag"
)

// entryValues are the editable fields of an entry, as typed.
type entryValues struct {
	Name string
	Kg   string
	Rate string
}

// entryFlagSet returns the --name/--kg/--rate flags shared by the add and
// edit commands, bound to v.
func entryFlagSet(v *entryValues) *pflag.FlagSet {
	fs := pflag.NewFlagSet("entry", pflag.ContinueOnError)
	fs.StringVar(&v.Name, "name", "", "Worker name")
	fs.StringVar(&v.Kg, "kg", "", "KG collected; sums such as 12+8.5 are evaluated")
	fs.StringVar(&v.Rate, "rate", "", "Rate per KG")
	return fs
}

// get returns the typed value for a draft field.
func (v *entryValues) get(f domain.DraftField) string {
	switch f {
	case domain.DraftName:
		return v.Name
	case domain.DraftKg:
		return v.Kg
	case domain.DraftRate:
		return v.Rate
	}
	return ""
}

// set stores a value for a draft field.
func (v *entryValues) set(f domain.DraftField, s string) {
	switch f {
	case domain.DraftName:
		v.Name = s
	case domain.DraftKg:
		v.Kg = s
	case domain.DraftRate:
		v.Rate = s
	}
}

func (v *entryValues) complete() bool {
	return v.Name != "" && v.Kg != "" && v.Rate != ""
}
