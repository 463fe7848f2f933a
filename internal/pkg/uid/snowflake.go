package uid

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// NumberID generates unique, roughly time-ordered numeric identifiers.
type NumberID interface {
	Generate() int64
}

// Snowflake generates int64 IDs using the twitter snowflake layout.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake returns a generator bound to the given node number (0..1023).
func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("uid: snowflake node %d: %w", node, err)
	}

	return &Snowflake{node: n}, nil
}

// Generate returns the next id. It is safe for concurrent use.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
