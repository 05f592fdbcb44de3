package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/erlab/resolver"
)

// Neo4jAccessMode controls whether a session is opened for read or write
// operations.
type Neo4jAccessMode string

const (
	AccessModeWrite Neo4jAccessMode = "write"
	AccessModeRead  Neo4jAccessMode = "read"
)

// Neo4jSessionConfig mirrors the minimal subset of Neo4j session
// configuration this sink requires.
type Neo4jSessionConfig struct {
	AccessMode   Neo4jAccessMode
	DatabaseName string
}

// neo4jDriver abstracts the Neo4j driver capabilities PutClusters needs.
// This lets tests supply a lightweight fake without depending on the real
// driver package, which is wired in only under the neo4j build tag.
type neo4jDriver interface {
	NewSession(ctx context.Context, config Neo4jSessionConfig) (neo4jSession, error)
	Close(ctx context.Context) error
}

type neo4jSession interface {
	Run(ctx context.Context, query string, params map[string]any) (neo4jResult, error)
	Close(ctx context.Context) error
}

type neo4jResult interface {
	Next(ctx context.Context) bool
	Err() error
	Close(ctx context.Context) error
}

// ErrNeo4jUnavailable is returned when a Neo4jSink is used without a
// configured driver.
var ErrNeo4jUnavailable = errors.New("store: neo4j driver not configured")

// Neo4jSink persists resolved clusters as a small graph: one (:Cluster)
// node per cluster, one (:Reference) node per member reference, and a
// (:Reference)-[:IN_CLUSTER]->(:Cluster) edge for membership.
type Neo4jSink struct {
	driver   neo4jDriver
	database string
}

// NewNeo4jSink constructs a sink writing through driver against database.
func NewNeo4jSink(driver neo4jDriver, database string) (*Neo4jSink, error) {
	if driver == nil {
		return nil, ErrNeo4jUnavailable
	}
	return &Neo4jSink{driver: driver, database: database}, nil
}

// PutClusters writes one Cluster node and one IN_CLUSTER edge per member
// for each cluster in clusters.
func (s *Neo4jSink) PutClusters(ctx context.Context, clusters []*resolver.Cluster) error {
	if s.driver == nil {
		return ErrNeo4jUnavailable
	}
	session, err := s.driver.NewSession(ctx, Neo4jSessionConfig{AccessMode: AccessModeWrite, DatabaseName: s.database})
	if err != nil {
		return fmt.Errorf("store: neo4j new session: %w", err)
	}
	defer session.Close(ctx)

	for _, c := range clusters {
		res, err := session.Run(ctx, "MERGE (c:Cluster {id: $id}) RETURN c", map[string]any{"id": c.OID()})
		if err != nil {
			return fmt.Errorf("store: merge cluster node: %w", err)
		}
		if !drain(ctx, res) {
			return fmt.Errorf("store: merge cluster node: %w", res.Err())
		}

		for _, ref := range c.References() {
			res, err := session.Run(ctx, `
				MERGE (r:Reference {id: $refID})
				MERGE (c:Cluster {id: $clusterID})
				MERGE (r)-[:IN_CLUSTER]->(c)
			`, map[string]any{"refID": ref.OID(), "clusterID": c.OID()})
			if err != nil {
				return fmt.Errorf("store: merge membership edge: %w", err)
			}
			if !drain(ctx, res) {
				return fmt.Errorf("store: merge membership edge: %w", res.Err())
			}
		}
	}
	return nil
}

// drain exhausts res so its Err() reflects any deferred execution failure,
// returning false if the query itself failed.
func drain(ctx context.Context, res neo4jResult) bool {
	for res.Next(ctx) {
	}
	return res.Err() == nil
}
