package accounts

import (
	"fmt"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/sql"
)

func decode(stmt *sql.Statement, account *types.Account) {
	stmt.ColumnBytes(0, account.Address[:])
	var balance [32]byte
	stmt.ColumnBytes(1, balance[:])
	account.Balance.SetBytes32(balance[:])
	account.Nonce = uint64(stmt.ColumnInt64(2))
	if !sql.IsNull(stmt, 3) {
		stmt.ColumnBytes(3, account.Delegate[:])
	} else {
		account.Delegate = types.EmptyAddress
	}
}

// Get account by address. Returns sql.ErrNotFound if account was never stored.
func Get(db sql.Executor, address types.Address) (types.Account, error) {
	var account types.Account
	rows, err := db.Exec(`select address, balance, nonce, delegate
		from accounts where address = ?1;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, address.Bytes())
		}, func(stmt *sql.Statement) bool {
			decode(stmt, &account)
			return false
		})
	if err != nil {
		return types.Account{}, fmt.Errorf("failed to load %v: %w", address, err)
	}
	if rows == 0 {
		return types.Account{}, fmt.Errorf("%w: account %v", sql.ErrNotFound, address)
	}
	return account, nil
}

// IterateAccounts calls fn for every stored account in address order until fn returns false.
func IterateAccounts(db sql.Executor, fn func(*types.Account) bool) error {
	_, err := db.Exec(`select address, balance, nonce, delegate
		from accounts order by address asc;`,
		nil,
		func(stmt *sql.Statement) bool {
			var account types.Account
			decode(stmt, &account)
			return fn(&account)
		})
	if err != nil {
		return fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return nil
}

// All returns all accounts.
func All(db sql.Executor) ([]*types.Account, error) {
	var rst []*types.Account
	if err := IterateAccounts(db, func(account *types.Account) bool {
		rst = append(rst, account)
		return true
	}); err != nil {
		return nil, err
	}
	return rst, nil
}

// Update inserts or replaces account state.
func Update(db sql.Executor, to *types.Account) error {
	balance := to.Balance.Bytes32()
	_, err := db.Exec(`insert into accounts (address, balance, nonce, delegate)
	values (?1, ?2, ?3, ?4)
	on conflict (address) do update set
		balance = ?2, nonce = ?3, delegate = ?4;`, func(stmt *sql.Statement) {
		stmt.BindBytes(1, to.Address.Bytes())
		stmt.BindBytes(2, balance[:])
		stmt.BindInt64(3, int64(to.Nonce))
		if to.Delegate == types.EmptyAddress {
			stmt.BindNull(4)
		} else {
			stmt.BindBytes(4, to.Delegate.Bytes())
		}
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to update account %v: %w", to.Address.String(), err)
	}
	return nil
}
