package checkpoints

import (
	"fmt"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/sql"
)

// Put stores the idx-th checkpoint of the account, replacing the existing one.
func Put(db sql.Executor, address types.Address, idx int, cp *types.Checkpoint) error {
	votes := cp.Votes.Bytes32()
	if _, err := db.Exec(`insert into checkpoints (address, idx, from_block, votes)
		values (?1, ?2, ?3, ?4)
		on conflict (address, idx) do update set from_block = ?3, votes = ?4;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, address.Bytes())
			stmt.BindInt64(2, int64(idx))
			stmt.BindInt64(3, int64(cp.FromBlock))
			stmt.BindBytes(4, votes[:])
		}, nil); err != nil {
		return fmt.Errorf("put checkpoint %d of %v: %w", idx, address, err)
	}
	return nil
}

func decode(stmt *sql.Statement, cp *types.Checkpoint) {
	cp.FromBlock = uint64(stmt.ColumnInt64(0))
	var buf [32]byte
	stmt.ColumnBytes(1, buf[:])
	cp.Votes.SetBytes32(buf[:])
}

// History loads all checkpoints of the account ordered by index.
func History(db sql.Executor, address types.Address) ([]types.Checkpoint, error) {
	var rst []types.Checkpoint
	if _, err := db.Exec(`select from_block, votes from checkpoints
		where address = ?1 order by idx asc;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, address.Bytes())
		}, func(stmt *sql.Statement) bool {
			var cp types.Checkpoint
			decode(stmt, &cp)
			rst = append(rst, cp)
			return true
		}); err != nil {
		return nil, fmt.Errorf("load checkpoints of %v: %w", address, err)
	}
	return rst, nil
}

// Count returns number of checkpoints of the account.
func Count(db sql.Executor, address types.Address) (int, error) {
	var count int
	if _, err := db.Exec("select count(*) from checkpoints where address = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, address.Bytes())
		}, func(stmt *sql.Statement) bool {
			count = stmt.ColumnInt(0)
			return false
		}); err != nil {
		return 0, fmt.Errorf("count checkpoints of %v: %w", address, err)
	}
	return count, nil
}

// Latest returns the last checkpoint of the account at or before block.
// Returns sql.ErrNotFound if the account has no checkpoints before block.
func Latest(db sql.Executor, address types.Address, block uint64) (types.Checkpoint, error) {
	var cp types.Checkpoint
	rows, err := db.Exec(`select from_block, votes from checkpoints
		where address = ?1 and from_block <= ?2 order by idx desc limit 1;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, address.Bytes())
			stmt.BindInt64(2, int64(block))
		}, func(stmt *sql.Statement) bool {
			decode(stmt, &cp)
			return false
		})
	if err != nil {
		return types.Checkpoint{}, fmt.Errorf("latest checkpoint of %v: %w", address, err)
	}
	if rows == 0 {
		return types.Checkpoint{}, fmt.Errorf("%w: checkpoint of %v at %d", sql.ErrNotFound, address, block)
	}
	return cp, nil
}

// IterateAccounts calls fn for every address with at least one checkpoint.
func IterateAccounts(db sql.Executor, fn func(types.Address) bool) error {
	if _, err := db.Exec("select distinct address from checkpoints order by address;",
		nil, func(stmt *sql.Statement) bool {
			var address types.Address
			stmt.ColumnBytes(0, address[:])
			return fn(address)
		}); err != nil {
		return fmt.Errorf("iterate checkpoint accounts: %w", err)
	}
	return nil
}
