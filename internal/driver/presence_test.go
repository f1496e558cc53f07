package driver

import (
	"strings"
	"testing"

	"github.com/Microsoft/go-winio/pkg/guid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenSysKit/hidhide/internal/hherr"
	"github.com/OpenSysKit/hidhide/internal/multisz"
)

const testInterface = `\\?\ROOT#SYSTEM#0001#{0c320ff7-bd9b-42b6-bdaf-49feb9c91649}`

func TestInterfaceGUID(t *testing.T) {
	t.Parallel()

	g, err := guid.FromString("0C320FF7-BD9B-42B6-BDAF-49FEB9C91649")
	require.NoError(t, err)
	assert.Equal(t, g, InterfaceGUID)
	assert.True(t, strings.EqualFold("0c320ff7-bd9b-42b6-bdaf-49feb9c91649", InterfaceGUID.String()))
}

func fill(buf []uint16, list []string) uint32 {
	units := multisz.EncodeUTF16(list)
	if len(units) > len(buf) {
		return crBufferSmall
	}
	copy(buf, units)
	return crSuccess
}

func TestQueryInterfaceList(t *testing.T) {
	t.Parallel()

	list := []string{testInterface}
	need := uint32(len(multisz.EncodeUTF16(list)))

	got, err := queryInterfaceList(
		func(length *uint32) uint32 { *length = need; return crSuccess },
		func(buf []uint16) uint32 { return fill(buf, list) },
	)
	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestQueryInterfaceListEmpty(t *testing.T) {
	t.Parallel()

	got, err := queryInterfaceList(
		func(length *uint32) uint32 { *length = 1; return crSuccess },
		func(buf []uint16) uint32 { return fill(buf, nil) },
	)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryInterfaceListRetriesOnceWithDoubledBuffer(t *testing.T) {
	t.Parallel()

	list := []string{testInterface}
	var sizes []int
	got, err := queryInterfaceList(
		func(length *uint32) uint32 { *length = 40; return crSuccess },
		func(buf []uint16) uint32 {
			sizes = append(sizes, len(buf))
			return fill(buf, list)
		},
	)
	require.NoError(t, err)
	assert.Equal(t, list, got)
	assert.Equal(t, []int{40, 80}, sizes)
}

func TestQueryInterfaceListGivesUpAfterRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := queryInterfaceList(
		func(length *uint32) uint32 { *length = 4; return crSuccess },
		func([]uint16) uint32 { calls++; return crBufferSmall },
	)
	assert.ErrorIs(t, err, hherr.ErrDetectionFailed)
	assert.Equal(t, 2, calls)

	var he *hherr.Error
	require.ErrorAs(t, err, &he)
	assert.Equal(t, crBufferSmall, he.Result)
}

func TestQueryInterfaceListSizeFailure(t *testing.T) {
	t.Parallel()

	listed := false
	_, err := queryInterfaceList(
		func(*uint32) uint32 { return 0x03 },
		func([]uint16) uint32 { listed = true; return crSuccess },
	)
	assert.ErrorIs(t, err, hherr.ErrDetectionFailed)
	assert.False(t, listed)
}
