package headers

import (
	"iter"
	"strings"

	"github.com/indigo-web/utils/strcomp"
)

// Field is a single header name with all the values accumulated under it.
type Field struct {
	Name   string
	Values []string
}

// Headers is an ordered multi-valued storage of header fields. Lookup is case-insensitive,
// insertion order of distinct names is preserved. As the storage is usually small, linear
// search is used instead of a map, which proves to be more efficient on relatively low
// amount of entries.
//
// There is intentionally no way to delete or overwrite values: once added, a value stays
// for the whole lifetime of the request.
type Headers struct {
	fields []Field
}

func New() *Headers {
	return new(Headers)
}

// NewPrealloc returns an instance of Headers with pre-allocated underlying storage.
func NewPrealloc(n int) *Headers {
	return &Headers{
		fields: make([]Field, 0, n),
	}
}

// FromMap returns a new instance with already inserted values from given map.
// Note: as maps are unordered, resulting underlying structure will also contain unordered
// fields.
func FromMap(m map[string][]string) *Headers {
	h := NewPrealloc(len(m))

	for name, values := range m {
		h.Add(name, values...)
	}

	return h
}

// FromPairs builds headers from a flat sequence of name-value pairs, preserving their order.
// Odd number of elements results in the last one being ignored.
func FromPairs(pairs ...string) *Headers {
	h := NewPrealloc(len(pairs) / 2)

	for i := 0; i+1 < len(pairs); i += 2 {
		h.Add(pairs[i], pairs[i+1])
	}

	return h
}

// Add appends values to the name. If the name is already presented (case-insensitively),
// values are appended to its list, otherwise a new field is created. Calling it without
// values does nothing, so a field never has an empty value list.
func (h *Headers) Add(name string, values ...string) *Headers {
	if len(values) == 0 {
		return h
	}

	if i := h.index(name); i != -1 {
		h.fields[i].Values = append(h.fields[i].Values, values...)
		return h
	}

	h.fields = append(h.fields, Field{
		Name:   name,
		Values: append(make([]string, 0, len(values)), values...),
	})

	return h
}

// Get returns all the values accumulated under the name and a bool, indicating whether
// the name is presented at all. The returned slice must not be modified.
func (h *Headers) Get(name string) (values []string, found bool) {
	if i := h.index(name); i != -1 {
		return h.fields[i].Values, true
	}

	return nil, false
}

// Value returns the first value, corresponding to the name. Otherwise, empty string is returned
func (h *Headers) Value(name string) string {
	return h.ValueOr(name, "")
}

// ValueOr returns either the first value corresponding to the name or custom value, defined
// via the second parameter.
func (h *Headers) ValueOr(name, or string) string {
	values, found := h.Get(name)
	if !found {
		return or
	}

	return values[0]
}

// Has indicates, whether there's an entry of the name.
func (h *Headers) Has(name string) bool {
	return h.index(name) != -1
}

// Iter returns an iterator over the fields in their insertion order.
func (h *Headers) Iter() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, field := range h.fields {
			if !yield(field.Name, field.Values) {
				break
			}
		}
	}
}

// Keys returns an iterator over unique names, as they were first seen.
func (h *Headers) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, field := range h.fields {
			if !yield(field.Name) {
				break
			}
		}
	}
}

// Len returns a number of distinct names.
func (h *Headers) Len() int {
	return len(h.fields)
}

func (h *Headers) Empty() bool {
	return h.Len() == 0
}

// Expose exposes the underlying fields slice.
func (h *Headers) Expose() []Field {
	return h.fields
}

// Clone creates a deep copy, which may be used later or stored somewhere safely. However,
// it comes at cost of multiple allocations.
func (h *Headers) Clone() *Headers {
	fields := make([]Field, len(h.fields))
	for i, field := range h.fields {
		values := make([]string, len(field.Values))
		for j, value := range field.Values {
			values[j] = strings.Clone(value)
		}

		fields[i] = Field{
			Name:   strings.Clone(field.Name),
			Values: values,
		}
	}

	return &Headers{fields: fields}
}

// Clear all the entries. Used exclusively to reuse the storage for the next request
// on the same connection; the allocated space won't be freed.
func (h *Headers) Clear() *Headers {
	h.fields = h.fields[:0]
	return h
}

func (h *Headers) index(name string) int {
	for i, field := range h.fields {
		if strcomp.EqualFold(name, field.Name) {
			return i
		}
	}

	return -1
}
