package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoctlCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code uint32
		fn   uint32
		want uint32
	}{
		{"get-whitelist", IOCTL_GET_WHITELIST, 0x800, 0x80016000},
		{"set-whitelist", IOCTL_SET_WHITELIST, 0x801, 0x80016004},
		{"get-blacklist", IOCTL_GET_BLACKLIST, 0x802, 0x80016008},
		{"set-blacklist", IOCTL_SET_BLACKLIST, 0x803, 0x8001600C},
		{"get-active", IOCTL_GET_ACTIVE, 0x804, 0x80016010},
		{"set-active", IOCTL_SET_ACTIVE, 0x805, 0x80016014},
		{"get-inverse", IOCTL_GET_WL_INVERSE, 0x806, 0x80016018},
		{"set-inverse", IOCTL_SET_WL_INVERSE, 0x807, 0x8001601C},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code)
			assert.Equal(t, tt.want, CTL_CODE(deviceTypeHidHide, tt.fn, methodBuffered, fileReadData))
			assert.Equal(t, tt.name, IoctlName(tt.code))
		})
	}

	assert.Equal(t, "unknown", IoctlName(0x22E004))
}
