//go:build windows

package driver

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modCfgMgr32                       = windows.NewLazySystemDLL("cfgmgr32.dll")
	procCMGetDeviceInterfaceListSizeW = modCfgMgr32.NewProc("CM_Get_Device_Interface_List_SizeW")
	procCMGetDeviceInterfaceListW     = modCfgMgr32.NewProc("CM_Get_Device_Interface_ListW")
)

// InterfaceList 返回当前存在的 HidHide 设备接口符号链接。
func InterfaceList() ([]string, error) {
	class := windows.GUID(InterfaceGUID)

	return queryInterfaceList(
		func(length *uint32) uint32 {
			r1, _, _ := procCMGetDeviceInterfaceListSizeW.Call(
				uintptr(unsafe.Pointer(length)),
				uintptr(unsafe.Pointer(&class)),
				0,
				cmGetDeviceInterfaceListPresent,
			)
			return uint32(r1)
		},
		func(buf []uint16) uint32 {
			r1, _, _ := procCMGetDeviceInterfaceListW.Call(
				uintptr(unsafe.Pointer(&class)),
				0,
				uintptr(unsafe.Pointer(&buf[0])),
				uintptr(len(buf)),
				cmGetDeviceInterfaceListPresent,
			)
			return uint32(r1)
		},
	)
}

// IsInstalled 驱动已加载时接口列表非空。
func IsInstalled() (bool, error) {
	ifaces, err := InterfaceList()
	if err != nil {
		return false, err
	}
	return len(ifaces) > 0, nil
}
