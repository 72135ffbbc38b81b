package types

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/spacemeshos/go-scale"
	"github.com/stretchr/testify/require"
)

func TestStringToAddress(t *testing.T) {
	addr, err := StringToAddress("0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	require.Equal(t, Address{19: 0xaa}, addr)

	_, err = StringToAddress("0x1234")
	require.ErrorIs(t, err, ErrWrongAddress)
	_, err = StringToAddress("zz000000000000000000000000000000000000aa")
	require.ErrorIs(t, err, ErrWrongAddress)
}

func TestContractAddress(t *testing.T) {
	deployer := Address{1}
	require.NotEqual(t, ContractAddress(deployer, 0), ContractAddress(deployer, 1))
	require.Equal(t, ContractAddress(deployer, 3), ContractAddress(deployer, 3))
}

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		desc  string
		input string
		want  *uint256.Int
		err   bool
	}{
		{desc: "decimal", input: "1000", want: uint256.NewInt(1000)},
		{desc: "hex", input: "0x3e8", want: uint256.NewInt(1000)},
		{desc: "max", input: MaxAmount.Dec(), want: MaxAmount},
		{desc: "negative", input: "-1", err: true},
		{desc: "garbage", input: "ten", err: true},
		{desc: "overflow", input: "0x1" + MaxAmount.Hex()[2:], err: true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExpandDecimals(t *testing.T) {
	require.Equal(t, "10000000000000000000000000", ExpandDecimals(10_000_000).Dec())
}

func TestMintingCap(t *testing.T) {
	p := MintingPolicy{CapPercent: 1}
	require.Equal(t, ExpandDecimals(100_000), p.Cap(ExpandDecimals(10_000_000)))
	require.True(t, p.Cap(uint256.NewInt(99)).IsZero())

	p.CapPercent = 100
	require.Equal(t, MaxAmount, p.Cap(MaxAmount))
}

func TestScaleCodec(t *testing.T) {
	schedule := VestingSchedule{
		Recipient:  Address{1, 2, 3},
		Amount:     *ExpandDecimals(5),
		Begin:      10,
		Cliff:      20,
		End:        30,
		LastUpdate: 15,
	}
	var buf bytes.Buffer
	_, err := schedule.EncodeScale(scale.NewEncoder(&buf))
	require.NoError(t, err)

	var decoded VestingSchedule
	_, err = decoded.DecodeScale(scale.NewDecoder(&buf))
	require.NoError(t, err)
	require.Equal(t, schedule, decoded)

	t.Run("truncated", func(t *testing.T) {
		var buf bytes.Buffer
		cp := Checkpoint{FromBlock: 7, Votes: *uint256.NewInt(9)}
		_, err := cp.EncodeScale(scale.NewEncoder(&buf))
		require.NoError(t, err)
		raw := buf.Bytes()[:buf.Len()-1]
		_, err = new(Checkpoint).DecodeScale(scale.NewDecoder(bytes.NewReader(raw)))
		require.Error(t, err)
	})
}
