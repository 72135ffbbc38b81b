package shard

import (
	"github.com/spacemeshos/go-shard/metrics"
)

const namespace = "token"

var (
	operations = metrics.NewCounter(
		"operations",
		namespace,
		"Number of token operations by outcome",
		[]string{"op", "outcome"},
	)
	totalSupply = metrics.NewGauge(
		"total_supply",
		namespace,
		"Total supply in whole tokens",
		[]string{},
	).WithLabelValues()
	checkpointsWritten = metrics.NewCounter(
		"checkpoints_written",
		namespace,
		"Number of checkpoints written by committed operations",
		[]string{},
	).WithLabelValues()
)

const (
	outcomeOk     = "ok"
	outcomeFailed = "failed"
)
