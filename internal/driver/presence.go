package driver

import (
	"github.com/Microsoft/go-winio/pkg/guid"

	"github.com/OpenSysKit/hidhide/internal/hherr"
	"github.com/OpenSysKit/hidhide/internal/multisz"
)

// InterfaceGUID HidHide 控制设备的接口类 GUID {0C320FF7-BD9B-42B6-BDAF-49FEB9C91649}，
// 只用于存在性检测，不参与数据 I/O。
var InterfaceGUID = guid.GUID{
	Data1: 0x0C320FF7,
	Data2: 0xBD9B,
	Data3: 0x42B6,
	Data4: [8]byte{0xBD, 0xAF, 0x49, 0xFE, 0xB9, 0xC9, 0x16, 0x49},
}

// HardwareID 驱动所挂载的根枚举软件设备的硬件 ID。
const HardwareID = `Root\HidHide`

// ServiceName 驱动服务名
const ServiceName = "HidHide"

// CONFIGRET 取值，参考 cfgmgr32.h
const (
	crSuccess     uint32 = 0x00
	crBufferSmall uint32 = 0x1A

	cmGetDeviceInterfaceListPresent = 0x0
)

// queryInterfaceList 两阶段获取设备接口列表：先取所需长度（字符数），再取内容。
// 两次调用之间接口列表可能变化，此时返回 CR_BUFFER_SMALL，缓冲区加倍后只重试一次。
func queryInterfaceList(size func(length *uint32) uint32, list func(buf []uint16) uint32) ([]string, error) {
	var length uint32
	if ret := size(&length); ret != crSuccess {
		return nil, detectionError(ret)
	}
	if length == 0 {
		length = 1
	}

	buf := make([]uint16, length)
	ret := list(buf)
	if ret == crBufferSmall {
		buf = make([]uint16, length*2)
		ret = list(buf)
	}
	if ret != crSuccess {
		return nil, detectionError(ret)
	}

	return multisz.DecodeUTF16(buf), nil
}

func detectionError(ret uint32) error {
	return &hherr.Error{Kind: hherr.KindDetectionFailed, Op: "query-interface-list", Result: ret}
}
