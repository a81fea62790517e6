package ipkey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseV4(t *testing.T) {
	k, err := Parse("61.142.118.231")
	require.NoError(t, err)
	require.Equal(t, V4, k.Version)
	require.Equal(t, []byte{61, 142, 118, 231}, k.Bytes)
}

func TestParseV6(t *testing.T) {
	k, err := Parse("2400:3200::1")
	require.NoError(t, err)
	require.Equal(t, V6, k.Version)
	require.Len(t, k.Bytes, 16)
}

func TestParseInvalid(t *testing.T) {
	for _, text := range []string{
		"not-an-ip",
		"999.999.999.999",
		"",
		"fe80::1%eth0",
		"::ffff:1.2.3.4",
	} {
		_, err := Parse(text)
		require.ErrorIs(t, err, ErrInvalidAddress, "text=%q", text)
	}
}

func TestWidth(t *testing.T) {
	require.Equal(t, 4, V4.Width())
	require.Equal(t, 16, V6.Width())
}
