package driver

import (
	"errors"
	"syscall"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

// ControlDevicePath HidHide 驱动创建的控制设备符号链接。
const ControlDevicePath = `\\.\HidHide`

// Device 定义与内核驱动交互的抽象接口。
// hidhide 层依赖此接口而非具体实现，便于测试和解耦。
type Device interface {
	// IoControl 发送一次 IOCTL 请求。out 为 nil 时驱动通过返回值报告所需字节数。
	IoControl(code uint32, in, out []byte) (uint32, error)
	Close() error
}

// Opener 为每次操作打开一个新的设备句柄。
type Opener func() (Device, error)

// OpenControlDevice 打开 HidHide 控制设备，是默认的 Opener。
func OpenControlDevice() (Device, error) {
	c, err := Open(ControlDevicePath)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Win32 错误码，这里单独定义以便在非 Windows 平台上测试映射逻辑。
const (
	errorFileNotFound       = 2
	errorPathNotFound       = 3
	errorAccessDenied       = 5
	errorInvalidHandle      = 6
	errorSharingViolation   = 32
	errorCallNotImplemented = 120
	errorNotFound           = 1168
)

// openError 把打开设备时的平台错误映射为 hherr 类别。
func openError(path string, err error) *hherr.Error {
	e := &hherr.Error{Kind: hherr.KindPlatform, Op: "open", Path: path, Err: err}

	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return e
	}
	e.Code = uint32(errno)

	switch e.Code {
	case errorAccessDenied, errorSharingViolation:
		e.Kind = hherr.KindAccessDenied
	case errorFileNotFound, errorPathNotFound, errorNotFound:
		e.Kind = hherr.KindDriverNotFound
	case errorInvalidHandle:
		e.Kind = hherr.KindHandleInvalid
	}
	return e
}

// RequestError 把 DeviceIoControl 失败包装为 request-failed，已是 *hherr.Error 的保持不变。
func RequestError(code uint32, err error) error {
	if hherr.KindOf(err) != hherr.KindUnknown {
		return err
	}
	e := &hherr.Error{Kind: hherr.KindRequestFailed, Op: IoctlName(code), Err: err}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Code = uint32(errno)
	}
	return e
}
