package uid

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/log"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init prepares the snowflake node. Only the first call has any effect.
func Init(machineID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(machineID)
	})
	return err
}

func Generate() int64 {
	if node == nil {
		log.Fatalf("uid package not initialized")
	}
	return node.Generate().Int64()
}
