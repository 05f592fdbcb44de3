package resolver

import "testing"

func TestSchemaFieldPanicsOnDuplicateName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic registering a duplicate field name")
		}
	}()
	s := NewSchema()
	s.Field("name", func(v any) (Field, error) { return NewValue(v.(string)) })
	s.Field("name", func(v any) (Field, error) { return NewValue(v.(string)) })
}

func TestSchemaBlockingKeyPanicsOnDuplicateName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic registering a duplicate blocking key name")
		}
	}()
	s := NewSchema()
	s.BlockingKey(testNameBlock{})
	s.BlockingKey(testNameBlock{})
}

func TestSchemaNewRejectsUndeclaredField(t *testing.T) {
	s := NewSchema()
	s.Field("name", func(v any) (Field, error) { return NewValue(v.(string)) })

	_, err := s.New(map[string]any{"unknown": "x"}, nil)
	if err == nil {
		t.Fatalf("expected an error for an undeclared field")
	}
	schemaErr, ok := err.(*SchemaError)
	if !ok {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	if schemaErr.Field != "unknown" {
		t.Errorf("expected SchemaError.Field %q, got %q", "unknown", schemaErr.Field)
	}
}

func TestSchemaNewRejectsFactoryError(t *testing.T) {
	s := NewSchema()
	s.Field("age", func(v any) (Field, error) {
		n, ok := v.(int)
		if !ok {
			return nil, &SchemaError{Reason: "expected an int"}
		}
		return NewValue(n)
	})

	_, err := s.New(map[string]any{"age": "not an int"}, nil)
	if err == nil {
		t.Fatalf("expected an error for a value the factory rejects")
	}
}

func TestSchemaNewBuildsReferenceWithSortedFieldNames(t *testing.T) {
	s := NewSchema()
	s.Field("zeta", func(v any) (Field, error) { return NewValue(v.(string)) })
	s.Field("alpha", func(v any) (Field, error) { return NewValue(v.(string)) })

	ref, err := s.New(map[string]any{"zeta": "z", "alpha": "a"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := ref.FieldNames()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("expected sorted field names [alpha zeta], got %v", names)
	}
}
