package implementation

import (
	"fmt"

	bwmarrin "github.com/bwmarrin/snowflake"
	"github.com/jt828/perf-metrics/pkg/snowflake"
)

type bwmarrinSnowflake struct {
	node *bwmarrin.Node
}

// NewSnowflake returns a generator for node ids in [0, 1023].
func NewSnowflake(nodeID int64) (snowflake.Snowflake, error) {
	node, err := bwmarrin.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &bwmarrinSnowflake{node: node}, nil
}

func (s *bwmarrinSnowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
