package sh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseToy(t *testing.T) {
	toy, err := ParseToy("1")
	require.NoError(t, err)
	require.Equal(t, uint8(0), toy)
	toy, err = ParseToy("2")
	require.NoError(t, err)
	require.Equal(t, uint8(1), toy)
	for _, arg := range []string{"0", "x", "300", "-1"} {
		_, err = ParseToy(arg)
		require.Error(t, err, arg)
	}
}
