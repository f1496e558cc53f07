package driver

import (
	"fmt"

	"github.com/hashicorp/go-version"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

// driverNode 对应一条 Win32_PnPSignedDriver 记录中用到的字段。
type driverNode struct {
	DeviceID      string
	DriverVersion string
}

// selectDriverVersion 要求恰好一个设备节点，并解析其驱动版本。
func selectDriverVersion(nodes []driverNode) (*version.Version, error) {
	switch len(nodes) {
	case 0:
		return nil, &hherr.Error{Kind: hherr.KindDriverNotFound, Op: "driver-version", Path: HardwareID}
	case 1:
	default:
		return nil, &hherr.Error{Kind: hherr.KindMultipleDeviceNodes, Op: "driver-version", Path: HardwareID}
	}

	v, err := version.NewVersion(nodes[0].DriverVersion)
	if err != nil {
		return nil, fmt.Errorf("解析驱动版本 %q 失败: %w", nodes[0].DriverVersion, err)
	}
	return v, nil
}
