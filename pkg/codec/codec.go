// Package codec serializes resolver output (ClusterData) into TOON
// (Token-Oriented Object Notation), a compact textual format well suited to
// handing cluster results to a downstream LLM prompt.
package codec

import (
	"github.com/alpkeskin/gotoon"

	"github.com/erlab/resolver"
)

// Encode renders clusters as TOON with sorted keys and no indentation.
func Encode(clusters []resolver.ClusterData) (string, error) {
	return gotoon.Encode(clusters, gotoon.WithSortedKeys(true), gotoon.WithIndent(""))
}

// EncodeIndented renders clusters as TOON with sorted keys, indented for
// human inspection.
func EncodeIndented(clusters []resolver.ClusterData, indent string) (string, error) {
	if indent == "" {
		indent = "  "
	}
	return gotoon.Encode(clusters, gotoon.WithSortedKeys(true), gotoon.WithIndent(indent))
}
