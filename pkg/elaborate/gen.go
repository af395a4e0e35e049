package elaborate

import "github.com/atlas-hdl/atlas/pkg/op"

// Gen registers an operator with the currently-elaborating module,
// deduplicating cacheable operators against the module's CSE table (spec
// section 4.5, "op_gen"): a second Gen call building a Cacheable operator
// with an equal Key returns the first operator's result unchanged instead
// of appending a new one (P6).
func Gen[T op.Operator](e *Elaborator, ctor func() T) (T, error) {
	var zero T

	m, err := e.CurrentModule()
	if err != nil {
		return zero, err
	}

	built := ctor()

	cacheable, ok := any(built).(op.Cacheable)
	if !ok {
		m.Ops = append(m.Ops, built)
		return built, nil
	}

	key := cacheable.CacheKey()

	if existing, found := m.opCache.Get(key); found {
		typed, ok := existing.(T)
		if !ok {
			return zero, nil
		}

		return typed, nil
	}

	m.Ops = append(m.Ops, built)
	m.opCache.Put(key, built)

	return built, nil
}
