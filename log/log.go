// Package log sets up zap loggers for the shard modules and provides field helpers
// for the domain types.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/holiman/uint256"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-shard/common/types"
)

const (
	// ConsoleEncoder represents logging with plain text.
	ConsoleEncoder = "console"
	// JSONEncoder represents logging with JSON.
	JSONEncoder = "json"
)

// where logs go by default.
var logWriter io.Writer = os.Stderr

// New creates a logger with a fixed level. Encoder is either ConsoleEncoder or JSONEncoder.
func New(name, level, encoder string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	var enc zapcore.Encoder
	switch encoder {
	case JSONEncoder:
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case ConsoleEncoder, "":
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log encoder %q", encoder)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(logWriter), zap.NewAtomicLevelAt(lvl))
	return zap.New(core).Named(name), nil
}

// ZAddress returns a hex encoded address field.
func ZAddress(name string, address types.Address) zap.Field {
	return zap.String(name, address.Hex())
}

// ZAmount returns a decimal amount field.
func ZAmount(name string, value *uint256.Int) zap.Field {
	if value == nil {
		return zap.Skip()
	}
	return zap.String(name, value.Dec())
}

// ZHash returns a hex encoded hash field.
func ZHash(name string, hash types.Hash32) zap.Field {
	return zap.String(name, hash.Hex())
}

// ZShortStringer is a field that logs a hash prefix, it is handy for state roots in console output.
func ZShortStringer(name string, hash types.Hash32) zap.Field {
	return zap.String(name, hash.Hex()[:12])
}
