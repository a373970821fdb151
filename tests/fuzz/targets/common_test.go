package targets

import (
	"os"
	"runtime"

	"github.com/funvibe/gradual/internal/config"
)

func init() {
	// Run IDs and anything else randomized become deterministic.
	config.IsTestMode = true

	// Cap fuzz worker parallelism unless the caller explicitly set GOMAXPROCS.
	if _, ok := os.LookupEnv("GOMAXPROCS"); !ok {
		max := runtime.NumCPU()
		if max > 4 {
			max = 4
		}
		if runtime.GOMAXPROCS(0) > max {
			runtime.GOMAXPROCS(max)
		}
	}
}
