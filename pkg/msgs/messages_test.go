package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/toyctl/pkg/servo"
)

func TestBankStateEncoding(t *testing.T) {
	bank, err := servo.NewBank(servo.DefaultLayout(), nil)
	require.NoError(t, err)
	bank.Record(1, 30)
	bank.Record(5, 135)

	data, err := EncodeBankState(bank.Records())
	require.NoError(t, err)
	state, err := DecodeBankState(data)
	require.NoError(t, err)

	require.Equal(t, []int{90, 30, 90, 90, 90, 135}, state.Angles())
	weave := state.Servos[5]
	require.Equal(t, uint32(1), weave.Toy)
	require.Equal(t, "weave", weave.Role)
	require.Equal(t, int32(25), weave.Pin)
}

func TestDecodeBankStateGarbage(t *testing.T) {
	_, err := DecodeBankState([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}
