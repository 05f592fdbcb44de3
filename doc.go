// Package resolver implements probabilistic entity resolution: grouping a
// stream or batch of observed references into clusters that are likely to
// denote the same real-world entity.
//
// Scoring follows the Fellegi-Sunter log-likelihood model; clustering is
// greedy and agglomerative, gated by a blocking predicate that prunes
// implausible comparisons before they are scored. Two resolution strategies
// are provided: SerialResolver for incremental, one-reference-at-a-time
// ingestion, and MergeResolver for batch ingestion via a pyramidal merge of
// independently resolved partitions.
//
// The package has no external dependencies by design: it is a pure,
// deterministic algorithm over in-memory data structures. Concrete Field,
// BlockingKey, reference-source and cluster-sink implementations that talk to
// embeddings providers, LLMs or databases live in the sibling pkg/ packages.
package resolver
