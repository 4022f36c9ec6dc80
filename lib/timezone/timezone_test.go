package timezone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	now := Now()
	require.Equal(t, "Asia/Ho_Chi_Minh", now.Location().String())

	_, offset := now.Zone()
	require.Equal(t, 7*60*60, offset)
}
