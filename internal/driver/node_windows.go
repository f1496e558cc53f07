//go:build windows

package driver

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/yusufpapurcu/wmi"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

type Win32_PnPSignedDriver struct {
	DeviceID      string
	DriverVersion string
	HardWareID    string
}

func queryDriverNodes() ([]driverNode, error) {
	var dst []Win32_PnPSignedDriver
	// WQL 字符串字面量中的反斜杠需要转义
	id := strings.ReplaceAll(HardwareID, `\`, `\\`)
	query := fmt.Sprintf("SELECT DeviceID, DriverVersion, HardWareID FROM Win32_PnPSignedDriver WHERE HardWareID = '%s'", id)
	if err := wmi.Query(query, &dst); err != nil {
		return nil, &hherr.Error{Kind: hherr.KindDetectionFailed, Op: "query-driver-node", Path: HardwareID, Err: err}
	}

	nodes := make([]driverNode, 0, len(dst))
	for _, d := range dst {
		nodes = append(nodes, driverNode{DeviceID: d.DeviceID, DriverVersion: d.DriverVersion})
	}
	return nodes, nil
}

// IsDriverNodePresent 检查 Root\HidHide 软件设备节点是否存在。
func IsDriverNodePresent() (bool, error) {
	nodes, err := queryDriverNodes()
	if err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

// LocalDriverVersion 返回本机已安装驱动的版本。
func LocalDriverVersion() (*version.Version, error) {
	nodes, err := queryDriverNodes()
	if err != nil {
		return nil, err
	}
	return selectDriverVersion(nodes)
}
