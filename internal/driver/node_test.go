package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

func TestSelectDriverVersion(t *testing.T) {
	t.Parallel()

	v, err := selectDriverVersion([]driverNode{{DeviceID: `ROOT\SYSTEM\0001`, DriverVersion: "1.5.230.0"}})
	require.NoError(t, err)
	assert.Equal(t, "1.5.230.0", v.String())
	assert.Equal(t, []int{1, 5, 230, 0}, v.Segments())

	_, err = selectDriverVersion(nil)
	assert.ErrorIs(t, err, hherr.ErrDriverNotFound)

	_, err = selectDriverVersion([]driverNode{{DriverVersion: "1.5.230.0"}, {DriverVersion: "1.4.0.0"}})
	assert.ErrorIs(t, err, hherr.ErrMultipleDeviceNodes)

	_, err = selectDriverVersion([]driverNode{{DriverVersion: "not a version"}})
	assert.Error(t, err)
}
