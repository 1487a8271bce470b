package bootstrap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/jt828/perf-metrics/internal/config"
	"github.com/jt828/perf-metrics/pkg/snowflake"
	snowflakeImpl "github.com/jt828/perf-metrics/pkg/snowflake/implementation"
)

// InitializeSnowflake builds the blob id generator. An explicit
// snowflake.node_id wins; otherwise the id is derived from the host name.
func InitializeSnowflake(cfg config.SnowflakeConfig) (snowflake.Snowflake, error) {
	nodeID := cfg.NodeID
	if nodeID == config.AutoNodeID {
		var err error
		if nodeID, err = HostNodeID(); err != nil {
			return nil, err
		}
	}
	return snowflakeImpl.NewSnowflake(nodeID)
}

// HostNodeID derives a node id in [0, 1023] from HOSTNAME, falling back to
// the kernel host name when the variable is unset or not exported.
func HostNodeID() (int64, error) {
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return 0, fmt.Errorf("resolving host name: %w", err)
		}
		hostname = h
	}
	if hostname == "" {
		return 0, errors.New("no host name to derive a snowflake node id from; set snowflake.node_id")
	}
	return NodeIDFromName(hostname), nil
}

// NodeIDFromName hashes name into [0, 1023] so that replicas of one
// deployment get distinct ids.
func NodeIDFromName(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(binary.BigEndian.Uint64(h.Sum(nil)) % 1024)
}
