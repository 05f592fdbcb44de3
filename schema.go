package resolver

// FieldFactory builds a Field from a raw value supplied at Reference
// construction time. It returns a SchemaError (or wraps one) if value is not
// of the expected type.
type FieldFactory func(value any) (Field, error)

type fieldSpec struct {
	name    string
	factory FieldFactory
}

// Schema is a static, declarative replacement for the source's
// class-attribute field/blocking-key declarations (Design Notes §9): a
// builder value listing (name, factory) pairs once, reused to construct many
// References.
type Schema struct {
	fields       []fieldSpec
	fieldIndex   map[string]int
	blockingKeys []BlockingKey
	bkIndex      map[string]struct{}
}

// NewSchema returns an empty Schema ready for Field/BlockingKey declarations.
func NewSchema() *Schema {
	return &Schema{fieldIndex: map[string]int{}, bkIndex: map[string]struct{}{}}
}

// Field declares a named field and the factory used to build it from a raw
// value. Panics if name is already declared — a schema is assembled once at
// startup, so a duplicate declaration is a programming error, not runtime
// input.
func (s *Schema) Field(name string, factory FieldFactory) *Schema {
	if _, exists := s.fieldIndex[name]; exists {
		panic("resolver: schema field " + name + " declared twice")
	}
	s.fieldIndex[name] = len(s.fields)
	s.fields = append(s.fields, fieldSpec{name: name, factory: factory})
	return s
}

// BlockingKey declares a blocking key every Reference built from this schema
// will carry.
func (s *Schema) BlockingKey(bk BlockingKey) *Schema {
	if _, exists := s.bkIndex[bk.Name()]; exists {
		panic("resolver: schema blocking key " + bk.Name() + " declared twice")
	}
	s.bkIndex[bk.Name()] = struct{}{}
	s.blockingKeys = append(s.blockingKeys, bk)
	return s
}

// New builds a Reference from a map of raw field values. A key in values not
// declared on the schema, or a value the corresponding factory rejects,
// yields a SchemaError and no Reference.
func (s *Schema) New(values map[string]any, metadata any) (*Reference, error) {
	fields := make(map[string]Field, len(values))
	for name, raw := range values {
		idx, ok := s.fieldIndex[name]
		if !ok {
			return nil, &SchemaError{Field: name, Reason: "not declared on schema"}
		}
		f, err := s.fields[idx].factory(raw)
		if err != nil {
			return nil, &SchemaError{Field: name, Reason: err.Error()}
		}
		fields[name] = f
	}
	return NewReference(fields, metadata, s.blockingKeys...), nil
}
