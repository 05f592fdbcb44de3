// Command resolve reads a JSON array of records from a file (or stdin),
// resolves them into clusters of likely-duplicate entities, and prints the
// result as TOON.
//
// Each record is a JSON object of the form:
//
//	{"fields": {"name": "Acme Inc", "email": "info@acme.com"}, "metadata": {...}}
//
// Every field is compared as normalized text (case/whitespace-insensitive
// equality); blocking is on the "name" field's first three characters when
// present, so only near-namesakes are ever compared.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/erlab/resolver"
	"github.com/erlab/resolver/pkg/blockingkeys"
	"github.com/erlab/resolver/pkg/codec"
	"github.com/erlab/resolver/pkg/fields"
	"github.com/erlab/resolver/pkg/metrics"
)

type record struct {
	Fields   map[string]string `json:"fields"`
	Metadata any                `json:"metadata"`
}

func main() {
	inputPath := flag.String("input", "", "path to a JSON array of records (default: stdin)")
	batch := flag.Bool("batch", false, "resolve via MergeResolver instead of SerialResolver")
	mergeUnitSize := flag.Int("merge-unit-size", 500, "MergeResolver chunk size (-batch only)")
	indent := flag.String("indent", "  ", "TOON indentation; empty for compact output")
	flag.Parse()

	if err := run(*inputPath, *batch, *mergeUnitSize, *indent, os.Stdout); err != nil {
		log.Fatalf("resolve: %v", err)
	}
}

func run(inputPath string, batch bool, mergeUnitSize int, indent string, out io.Writer) error {
	records, err := readRecords(inputPath)
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}

	schema := buildSchema(records)
	refs := make([]*resolver.Reference, 0, len(records))
	for _, rec := range records {
		values := make(map[string]any, len(rec.Fields))
		for k, v := range rec.Fields {
			values[k] = v
		}
		ref, err := schema.New(values, rec.Metadata)
		if err != nil {
			return fmt.Errorf("build reference: %w", err)
		}
		refs = append(refs, ref)
	}

	ctx := context.Background()
	counters := &metrics.Counters{}

	var data []resolver.ClusterData
	if batch {
		mr := resolver.NewMergeResolver(
			resolver.WithMergeUnitSize(mergeUnitSize),
			resolver.WithMergeResolverMetrics(counters),
		)
		if err := mr.Resolve(ctx, refs); err != nil {
			return fmt.Errorf("resolve: %w", err)
		}
		data = mr.GetClusterData(true)
	} else {
		sr := resolver.NewSerialResolver(resolver.WithMetrics(counters))
		sr.Add(refs...)
		if err := sr.Resolve(ctx); err != nil {
			return fmt.Errorf("resolve: %w", err)
		}
		data = sr.GetClusterData(true)
	}

	var encoded string
	if indent == "" {
		encoded, err = codec.Encode(data)
	} else {
		encoded, err = codec.EncodeIndented(data, indent)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintln(out, encoded)

	snap := counters.Snapshot()
	log.Printf("resolve: %d references, %d clusters, %d merges", snap.ReferencesAdded, len(data), snap.ClustersMerged)
	return nil
}

func readRecords(path string) ([]record, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

// buildSchema declares a NormalizedText field for every distinct key found
// across records, and blocks on the first three characters of "name" when
// present.
func buildSchema(records []record) *resolver.Schema {
	seen := map[string]struct{}{}
	hasName := false
	for _, rec := range records {
		for k := range rec.Fields {
			seen[k] = struct{}{}
			if k == "name" {
				hasName = true
			}
		}
	}

	schema := resolver.NewSchema()
	for name := range seen {
		schema.Field(name, func(value any) (resolver.Field, error) {
			s, ok := value.(string)
			if !ok {
				return nil, &resolver.SchemaError{Reason: "expected a string value"}
			}
			return fields.NormalizedText(s)
		})
	}
	if hasName {
		schema.BlockingKey(blockingkeys.NewPrefix("name", 3))
	}
	return schema
}
