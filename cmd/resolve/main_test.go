package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRecords = `[
	{"fields": {"name": "Acme Inc", "email": "info@acme.com"}},
	{"fields": {"name": "Acme  Inc", "email": "sales@acme.com"}},
	{"fields": {"name": "Globex Corp", "email": "contact@globex.com"}}
]`

func TestRunResolvesDuplicatesFromJSONToTOON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")
	if err := os.WriteFile(path, []byte(sampleRecords), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	if err := run(path, false, 500, "  ", &out); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}

	encoded := out.String()
	if strings.TrimSpace(encoded) == "" {
		t.Fatalf("expected non-empty TOON output")
	}
	if !strings.Contains(encoded, "acme.com") && !strings.Contains(encoded, "info@acme.com") {
		t.Errorf("expected encoded output to include field values, got: %s", encoded)
	}
}

func TestRunBatchModeProducesOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")
	if err := os.WriteFile(path, []byte(sampleRecords), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	if err := run(path, true, 2, "", &out); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatalf("expected non-empty TOON output in batch mode")
	}
}

func TestBuildSchemaAddsPrefixBlockingOnlyWhenNamePresent(t *testing.T) {
	withName := []record{{Fields: map[string]string{"name": "Acme", "email": "a@example.com"}}}
	schema := buildSchema(withName)
	ref, err := schema.New(map[string]any{"name": "Acme", "email": "a@example.com"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ref.BlockingKeys()["prefix:name:3"]; !ok {
		t.Errorf("expected a prefix:name:3 blocking key when a name field is present")
	}

	withoutName := []record{{Fields: map[string]string{"email": "a@example.com"}}}
	schema2 := buildSchema(withoutName)
	ref2, err := schema2.New(map[string]any{"email": "a@example.com"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ref2.BlockingKeys()["prefix:name:3"]; ok {
		t.Errorf("expected no prefix blocking key without a name field")
	}
}
