package driver

// IOCTL 控制码构造。
// Windows IOCTL 控制码格式: ((DeviceType) << 16) | ((Access) << 14) | ((Function) << 2) | (Method)
//
// 参考: https://learn.microsoft.com/en-us/windows-hardware/drivers/kernel/defining-i-o-control-codes

const (
	deviceTypeHidHide uint32 = 0x8001 // 32769
	methodBuffered    uint32 = 0
	fileReadData      uint32 = 0x0001
)

// CTL_CODE 按 Windows 约定构造 IOCTL 控制码。
func CTL_CODE(deviceType, function, method, access uint32) uint32 {
	return (deviceType << 16) | (access << 14) | (function << 2) | method
}

// IOCTL 控制码，与 HidHide 驱动保持一致，编译期求值。
const (
	IOCTL_GET_WHITELIST  = (deviceTypeHidHide << 16) | (fileReadData << 14) | (0x800 << 2) | methodBuffered
	IOCTL_SET_WHITELIST  = (deviceTypeHidHide << 16) | (fileReadData << 14) | (0x801 << 2) | methodBuffered
	IOCTL_GET_BLACKLIST  = (deviceTypeHidHide << 16) | (fileReadData << 14) | (0x802 << 2) | methodBuffered
	IOCTL_SET_BLACKLIST  = (deviceTypeHidHide << 16) | (fileReadData << 14) | (0x803 << 2) | methodBuffered
	IOCTL_GET_ACTIVE     = (deviceTypeHidHide << 16) | (fileReadData << 14) | (0x804 << 2) | methodBuffered
	IOCTL_SET_ACTIVE     = (deviceTypeHidHide << 16) | (fileReadData << 14) | (0x805 << 2) | methodBuffered
	IOCTL_GET_WL_INVERSE = (deviceTypeHidHide << 16) | (fileReadData << 14) | (0x806 << 2) | methodBuffered
	IOCTL_SET_WL_INVERSE = (deviceTypeHidHide << 16) | (fileReadData << 14) | (0x807 << 2) | methodBuffered
)

// IoctlName 返回控制码的可读名称，用于日志。
func IoctlName(code uint32) string {
	switch code {
	case IOCTL_GET_WHITELIST:
		return "get-whitelist"
	case IOCTL_SET_WHITELIST:
		return "set-whitelist"
	case IOCTL_GET_BLACKLIST:
		return "get-blacklist"
	case IOCTL_SET_BLACKLIST:
		return "set-blacklist"
	case IOCTL_GET_ACTIVE:
		return "get-active"
	case IOCTL_SET_ACTIVE:
		return "set-active"
	case IOCTL_GET_WL_INVERSE:
		return "get-inverse"
	case IOCTL_SET_WL_INVERSE:
		return "set-inverse"
	}
	return "unknown"
}
