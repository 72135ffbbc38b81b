package vester

import "github.com/spacemeshos/go-shard/metrics"

const namespace = "vester"

var claims = metrics.NewCounter(
	"claims",
	namespace,
	"Number of claims by outcome",
	[]string{"outcome"},
)

var (
	claimOk     = claims.WithLabelValues("ok")
	claimNotYet = claims.WithLabelValues("not_yet")
	claimFailed = claims.WithLabelValues("failed")
)
