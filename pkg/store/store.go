// Package store provides collaborator implementations that connect the
// deterministic resolver core to persistent systems: pulling raw references
// in (ReferenceSource) and pushing resolved clusters out (ClusterSink). The
// resolver core itself never imports this package.
package store

import (
	"context"

	"github.com/erlab/resolver"
)

// ReferenceSource streams references to be resolved.
type ReferenceSource interface {
	// Next returns the next reference, or ok=false once the source is
	// exhausted.
	Next(ctx context.Context) (ref *resolver.Reference, ok bool, err error)
}

// ClusterSink persists resolved clusters.
type ClusterSink interface {
	PutClusters(ctx context.Context, clusters []*resolver.Cluster) error
}

// SliceSource is a ReferenceSource over an in-memory slice, used directly
// for small batches and as a test double for the database-backed sources.
type SliceSource struct {
	refs []*resolver.Reference
	pos  int
}

// NewSliceSource returns a SliceSource that yields refs in order.
func NewSliceSource(refs []*resolver.Reference) *SliceSource {
	return &SliceSource{refs: refs}
}

func (s *SliceSource) Next(ctx context.Context) (*resolver.Reference, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.pos >= len(s.refs) {
		return nil, false, nil
	}
	ref := s.refs[s.pos]
	s.pos++
	return ref, true, nil
}

// DrainAll reads every remaining reference from src.
func DrainAll(ctx context.Context, src ReferenceSource) ([]*resolver.Reference, error) {
	var out []*resolver.Reference
	for {
		ref, ok, err := src.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, ref)
	}
}
