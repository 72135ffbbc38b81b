package kvstore

import (
	"fmt"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/go-shard/codec"
	"github.com/spacemeshos/go-shard/sql"
)

// Set stores scale encoded value under key, replacing the previous value.
func Set(db sql.Executor, key string, value scale.Encodable) error {
	bytes, err := codec.Encode(value)
	if err != nil {
		return fmt.Errorf("failed encoding: %w", err)
	}

	if _, err := db.Exec(`
		insert into kvstore (id, value) values (?1, ?2)
		on conflict (id) do
		update set value = ?2;`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, key)
			stmt.BindBytes(2, bytes)
		}, nil); err != nil {
		return fmt.Errorf("failed to insert value %s: %w", key, err)
	}

	return nil
}

// Get decodes value stored under key. Returns sql.ErrNotFound if key is missing.
func Get(db sql.Executor, key string, value scale.Decodable) error {
	var val []byte
	if rows, err := db.Exec("select value from kvstore where id = ?1;", func(stmt *sql.Statement) {
		stmt.BindText(1, key)
	}, func(stmt *sql.Statement) bool {
		val = make([]byte, stmt.ColumnLen(0))
		stmt.ColumnBytes(0, val[:])
		return true
	}); err != nil {
		return fmt.Errorf("failed to get value %s: %w", key, err)
	} else if rows == 0 {
		return fmt.Errorf("failed to get value %s: %w", key, sql.ErrNotFound)
	}

	if err := codec.Decode(val, value); err != nil {
		return fmt.Errorf("failed decoding %s: %w", key, err)
	}
	return nil
}
