package allowances

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/sql"
)

// Allowance of spender over owner's tokens.
type Allowance struct {
	Owner   types.Address
	Spender types.Address
	Value   uint256.Int
}

// Get returns the allowance, zero if it was never stored.
func Get(db sql.Executor, owner, spender types.Address) (*uint256.Int, error) {
	value := new(uint256.Int)
	_, err := db.Exec("select value from allowances where owner = ?1 and spender = ?2;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, owner.Bytes())
			stmt.BindBytes(2, spender.Bytes())
		}, func(stmt *sql.Statement) bool {
			var buf [32]byte
			stmt.ColumnBytes(0, buf[:])
			value.SetBytes32(buf[:])
			return false
		})
	if err != nil {
		return nil, fmt.Errorf("get allowance %v/%v: %w", owner, spender, err)
	}
	return value, nil
}

// Set the allowance. Zero value removes the record.
func Set(db sql.Executor, owner, spender types.Address, value *uint256.Int) error {
	if value.IsZero() {
		if _, err := db.Exec("delete from allowances where owner = ?1 and spender = ?2;",
			func(stmt *sql.Statement) {
				stmt.BindBytes(1, owner.Bytes())
				stmt.BindBytes(2, spender.Bytes())
			}, nil); err != nil {
			return fmt.Errorf("delete allowance %v/%v: %w", owner, spender, err)
		}
		return nil
	}
	buf := value.Bytes32()
	if _, err := db.Exec(`insert into allowances (owner, spender, value) values (?1, ?2, ?3)
		on conflict (owner, spender) do update set value = ?3;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, owner.Bytes())
			stmt.BindBytes(2, spender.Bytes())
			stmt.BindBytes(3, buf[:])
		}, nil); err != nil {
		return fmt.Errorf("set allowance %v/%v: %w", owner, spender, err)
	}
	return nil
}

// IterateAllowances calls fn for every non-zero allowance until fn returns false.
func IterateAllowances(db sql.Executor, fn func(*Allowance) bool) error {
	if _, err := db.Exec("select owner, spender, value from allowances order by owner, spender;",
		nil, func(stmt *sql.Statement) bool {
			var (
				allowance Allowance
				buf       [32]byte
			)
			stmt.ColumnBytes(0, allowance.Owner[:])
			stmt.ColumnBytes(1, allowance.Spender[:])
			stmt.ColumnBytes(2, buf[:])
			allowance.Value.SetBytes32(buf[:])
			return fn(&allowance)
		}); err != nil {
		return fmt.Errorf("iterate allowances: %w", err)
	}
	return nil
}
