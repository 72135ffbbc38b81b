package config

import (
	"fmt"
	"reflect"

	"github.com/holiman/uint256"
	"github.com/mitchellh/mapstructure"

	"github.com/spacemeshos/go-shard/common/types"
)

// AddressDecodeFunc decodes hex strings into addresses.
func AddressDecodeFunc() mapstructure.DecodeHookFuncType {
	return func(f, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(types.Address{}) {
			return data, nil
		}
		addr, err := types.StringToAddress(data.(string))
		if err != nil {
			return nil, fmt.Errorf("decode address %q: %w", data, err)
		}
		return addr, nil
	}
}

// AmountDecodeFunc decodes integers, decimal and hex strings into 256 bit amounts.
// Pointer fields are handled by mapstructure, which calls the hook again for the element.
func AmountDecodeFunc() mapstructure.DecodeHookFuncType {
	amountType := reflect.TypeOf(uint256.Int{})
	return func(f, t reflect.Type, data any) (any, error) {
		if t != amountType {
			return data, nil
		}
		var amount *uint256.Int
		switch v := data.(type) {
		case string:
			parsed, err := types.ParseAmount(v)
			if err != nil {
				return nil, fmt.Errorf("decode amount %q: %w", v, err)
			}
			amount = parsed
		case int:
			if v < 0 {
				return nil, fmt.Errorf("negative amount %d", v)
			}
			amount = uint256.NewInt(uint64(v))
		case int64:
			if v < 0 {
				return nil, fmt.Errorf("negative amount %d", v)
			}
			amount = uint256.NewInt(uint64(v))
		case uint64:
			amount = uint256.NewInt(v)
		default:
			return data, nil
		}
		return *amount, nil
	}
}
