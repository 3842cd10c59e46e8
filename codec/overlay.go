package codec

import (
	"maps"

	"github.com/wippyai/bobject"
	"github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

// overlayAccessor returns override values for the fields it holds and
// delegates everything else to base. base is never itself an overlay.
type overlayAccessor struct {
	base      bobject.Accessor
	prog      *Program
	rec       *recordPlan
	overrides map[string]any
}

// Overlay returns an accessor that reads fields from overrides when present
// and from base otherwise. base is not modified. Overlaying an overlay
// merges the override maps with the newer values winning.
//
// Override names must be fields of base's type; values are checked and
// coerced like wrapped values.
func Overlay(base bobject.Accessor, overrides map[string]any) (bobject.Accessor, error) {
	pl, ok := base.(planned)
	if !ok {
		return nil, errors.NotAccessor(errors.PhaseOverlay, typeName(base))
	}
	prog, rec := pl.planned()

	merged := make(map[string]any, len(overrides))
	if o, ok := base.(*overlayAccessor); ok {
		base = o.base
		maps.Copy(merged, o.overrides)
	}

	for name, v := range overrides {
		f, ok := rec.Lookup(name)
		if !ok {
			return nil, errors.FieldUnknown(errors.PhaseOverlay, rec.Name, name)
		}
		if !f.IsConst {
			if _, err := prog.wrapField(f, v, true); err != nil {
				if e, ok := err.(*errors.Error); ok {
					cp := *e.WithPath(name)
					cp.Phase = errors.PhaseOverlay
					return nil, &cp
				}
				return nil, err
			}
		}
		merged[name] = v
	}

	return &overlayAccessor{base: base, prog: prog, rec: rec, overrides: merged}, nil
}

func (a *overlayAccessor) TypeName() string {
	return a.rec.Name
}

func (a *overlayAccessor) Fields() []schema.Field {
	return a.prog.schema[a.rec.Name].Fields
}

func (a *overlayAccessor) Get(name string) (any, error) {
	return a.field(name, false)
}

func (a *overlayAccessor) GetWide(name string) (any, error) {
	return a.field(name, true)
}

func (a *overlayAccessor) field(name string, wide bool) (any, error) {
	f, ok := a.rec.Lookup(name)
	if !ok {
		return nil, errors.FieldUnknown(errors.PhaseOverlay, a.rec.Name, name)
	}
	raw, ok := a.overrides[name]
	if !ok {
		if wide {
			return a.base.GetWide(name)
		}
		return a.base.Get(name)
	}
	if f.IsConst {
		return raw, nil
	}
	v, err := a.prog.wrapField(f, raw, wide)
	if err != nil {
		return nil, pathed(err, name)
	}
	return v, nil
}

func (a *overlayAccessor) planned() (*Program, *recordPlan) {
	return a.prog, a.rec
}
