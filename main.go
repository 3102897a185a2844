// Command flowdash computes delivery dashboard metrics for customer contracts.
package main

import (
	"github.com/huangsam/flowdash/cmd"
	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseCaching()
	if err != nil {
		contract.LogFatal("Error running flowdash", err)
	}
}
