package typesystem

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/gradual/internal/diagnostics"
	"github.com/funvibe/gradual/internal/source"
)

// TypeAndOrigins pairs an inferred type with the program points that
// justify it. It is a value: every method returns a new TypeAndOrigins.
type TypeAndOrigins struct {
	Type    Type
	Origins []source.Loc
}

func NewTypeAndOrigins(t Type, origins ...source.Loc) TypeAndOrigins {
	return TypeAndOrigins{Type: t, Origins: append([]source.Loc(nil), origins...)}
}

// WithOrigins returns a copy with locs appended to the origins.
func (tao TypeAndOrigins) WithOrigins(locs ...source.Loc) TypeAndOrigins {
	origins := make([]source.Loc, 0, len(tao.Origins)+len(locs))
	origins = append(origins, tao.Origins...)
	origins = append(origins, locs...)
	return TypeAndOrigins{Type: tao.Type, Origins: origins}
}

// WithType returns a copy carrying t and the same origins.
func (tao TypeAndOrigins) WithType(t Type) TypeAndOrigins {
	return TypeAndOrigins{Type: t, Origins: append([]source.Loc(nil), tao.Origins...)}
}

// FirstOrigin returns the earliest recorded origin, or fallback if none exist.
func (tao TypeAndOrigins) FirstOrigin(fallback source.Loc) source.Loc {
	for _, o := range tao.Origins {
		if o.Exists() {
			return o
		}
	}
	return fallback
}

// Explanations turns every origin into an explanation line for diagnostics.
func (tao TypeAndOrigins) Explanations() []diagnostics.ErrorLine {
	lines := make([]diagnostics.ErrorLine, 0, len(tao.Origins))
	for _, o := range tao.Origins {
		lines = append(lines, diagnostics.ErrorLine{Loc: o})
	}
	return lines
}

// MergeOrigins joins two inferences reaching the same program point: the
// type is their Lub and the origins are the union of both, in order.
func MergeOrigins(ctx Context, a, b TypeAndOrigins) TypeAndOrigins {
	origins := make([]source.Loc, 0, len(a.Origins)+len(b.Origins))
	seen := set.New[source.Loc](cap(origins))
	for _, list := range [][]source.Loc{a.Origins, b.Origins} {
		for _, o := range list {
			if seen.Insert(o) {
				origins = append(origins, o)
			}
		}
	}
	return TypeAndOrigins{Type: Lub(ctx, a.Type, b.Type), Origins: origins}
}
