package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-shard/shard"
	"github.com/spacemeshos/go-shard/vester"
)

func execute(tb testing.TB, args ...string) (string, error) {
	tb.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(tb testing.TB, args ...string) string {
	tb.Helper()
	out, err := execute(tb, args...)
	require.NoError(tb, err, out)
	return out
}

func field(tb testing.TB, out, name string) string {
	tb.Helper()
	for _, line := range strings.Split(out, "\n") {
		if value, ok := strings.CutPrefix(line, name+" "); ok {
			return strings.TrimSpace(value)
		}
		if value, ok := strings.CutPrefix(line, name+": "); ok {
			return strings.TrimSpace(value)
		}
	}
	require.FailNow(tb, "field is missing", "%s in %q", name, out)
	return ""
}

func TestLedger(t *testing.T) {
	dir := t.TempDir()
	keyA := filepath.Join(dir, "a.hex")
	keyB := filepath.Join(dir, "b.hex")
	a := strings.TrimSpace(mustExecute(t, "keygen", "-o", keyA))
	b := strings.TrimSpace(mustExecute(t, "keygen", "-o", keyB))
	_, err := execute(t, "keygen", "-o", keyA)
	require.ErrorContains(t, err, "already exists")

	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf(`
data-dir = %q

[logging]
level = "error"

[genesis]
account = %q
minter = %q
supply = "1000"

[[vesting]]
recipient = %q
amount = 100
begin = 60
cliff = 120
end = 1000
`, filepath.Join(dir, "data"), a, a, b)), 0o600))
	with := func(args ...string) []string {
		return append(args, "-c", cfg)
	}

	_, err = execute(t, with("balance", a)...)
	require.ErrorContains(t, err, "not initialized")

	out := mustExecute(t, with("init")...)
	vesterAddress := field(t, out, "vester")
	_, err = execute(t, with("init")...)
	require.ErrorContains(t, err, "already initialized")

	out = mustExecute(t, with("balance", a)...)
	require.Equal(t, "900", field(t, out, "balance"))
	require.Equal(t, "0", field(t, out, "votes"))

	mustExecute(t, with("transfer", "--key", keyA, b, "10")...)
	require.Equal(t, "10", field(t, mustExecute(t, with("balance", b)...), "balance"))

	mustExecute(t, with("delegate", "--key", keyA, a)...)
	require.Equal(t, "890", field(t, mustExecute(t, with("balance", a)...), "votes"))

	out = mustExecute(t, with("mine")...)
	var number, timestamp uint64
	_, err = fmt.Sscanf(out, "block %d at %d", &number, &timestamp)
	require.NoError(t, err)
	require.EqualValues(t, 2, number)
	require.Equal(t, "890\n", mustExecute(t, with("votes", a, "--block", "1")...))
	_, err = execute(t, with("votes", a, "--block", "2")...)
	require.ErrorIs(t, err, shard.ErrNotYetDetermined)

	t.Run("signed transfer", func(t *testing.T) {
		msg := filepath.Join(dir, "transfer.json")
		mustExecute(t, with("sign", "transfer", "--key", keyA, "--to", b, "--value", "5", "-o", msg)...)
		mustExecute(t, with("submit", msg)...)
		require.Equal(t, "15", field(t, mustExecute(t, with("balance", b)...), "balance"))
		require.Equal(t, "1", field(t, mustExecute(t, with("balance", a)...), "nonce"))

		_, err := execute(t, with("submit", msg)...)
		require.ErrorIs(t, err, shard.ErrInvalidNonce)
	})
	t.Run("signed delegation", func(t *testing.T) {
		out := mustExecute(t, with("sign", "delegation", "--key", keyB, "--to", a)...)
		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetIn(strings.NewReader(out))
		root.SetArgs(with("submit", "-"))
		require.NoError(t, root.Execute())
		// own balance 885 plus 15 delegated by b
		require.Equal(t, "900", field(t, mustExecute(t, with("balance", a)...), "votes"))
	})
	t.Run("mint too early", func(t *testing.T) {
		_, err := execute(t, with("mint", "--key", keyA, b, "1")...)
		require.ErrorIs(t, err, shard.ErrTooEarly)
		_, err = execute(t, with("mint", "--key", keyB, b, "1")...)
		require.ErrorIs(t, err, shard.ErrNotMinter)
	})
	t.Run("stored records", func(t *testing.T) {
		out := mustExecute(t, with("status")...)
		require.Equal(t, "1", field(t, out, "schema"))
		require.Equal(t, fmt.Sprintf("2 at %d", timestamp), field(t, out, "head"))
		require.Equal(t, "1000", field(t, out, "supply"))
		require.NotEmpty(t, field(t, out, "root"))
		require.NotEqual(t, "0", field(t, out, "accounts"))

		out = mustExecute(t, with("inspect", a, "--block", "1", "--spender", b)...)
		require.Equal(t, "885", field(t, out, "balance"))
		require.Equal(t, "1", field(t, out, "nonce"))
		require.Equal(t, "2", field(t, out, "checkpoints"))
		require.Equal(t, "890", field(t, out, "votes at 1"))
		require.Equal(t, "0", field(t, out, "allowance"))

		_, err := execute(t, with("inspect", a, "--block", "2")...)
		require.ErrorIs(t, err, shard.ErrNotYetDetermined)

		out = mustExecute(t, with("inspect", "0x00000000000000000000000000000000000000ff")...)
		require.Equal(t, "not stored", field(t, out, "account"))
		require.Equal(t, "0", field(t, out, "checkpoints"))
	})
	t.Run("vesting", func(t *testing.T) {
		_, err := execute(t, with("claim", vesterAddress)...)
		require.ErrorIs(t, err, vester.ErrNotYet)
		out := mustExecute(t, with("claim", vesterAddress, "--status")...)
		require.Equal(t, "100", field(t, out, "balance"))
		require.Equal(t, "0", field(t, out, "claimable"))

		_, err = execute(t, with("claim", vesterAddress, "--set-recipient", a, "--key", keyA)...)
		require.ErrorIs(t, err, vester.ErrUnauthorized)

		mustExecute(t, with("mine", "--at", fmt.Sprint(timestamp+2000))...)
		require.Equal(t, "released 100\n", mustExecute(t, with("claim", vesterAddress)...))
		require.Equal(t, "885", field(t, mustExecute(t, with("balance", a)...), "balance"))
		require.Equal(t, "115", field(t, mustExecute(t, with("balance", b)...), "balance"))
		require.Equal(t, "released 0\n", mustExecute(t, with("claim", vesterAddress)...))
	})
	t.Run("locked data dir", func(t *testing.T) {
		lock := flock.New(filepath.Join(dir, "data", lockFile))
		locked, err := lock.TryLock()
		require.NoError(t, err)
		require.True(t, locked)
		t.Cleanup(func() { require.NoError(t, lock.Unlock()) })

		_, err = execute(t, with("balance", a)...)
		require.ErrorContains(t, err, "used by another process")
	})
}
