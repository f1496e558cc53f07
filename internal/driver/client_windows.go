//go:build windows

package driver

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"
)

// Client 封装与 HidHide 驱动控制设备的通信。
// 通过 CreateFile 打开设备句柄，通过 DeviceIoControl 收发数据。
// 实现 Device 接口。每个 Client 只服务于一次操作，用完立即 Close。
type Client struct {
	mu     sync.Mutex
	handle windows.Handle
	path   string
}

// Open 打开驱动设备（读写访问、读写共享、仅打开已存在的设备）。
// 失败时返回 *hherr.Error，类别由 Win32 错误码决定。
func Open(devicePath string) (*Client, error) {
	pathPtr, err := windows.UTF16PtrFromString(devicePath)
	if err != nil {
		return nil, fmt.Errorf("设备路径转换失败: %w", err)
	}

	handle, err := windows.CreateFile(
		pathPtr,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, openError(devicePath, err)
	}

	return &Client{handle: handle, path: devicePath}, nil
}

// Close 关闭设备句柄，可重复调用。
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == windows.InvalidHandle {
		return nil
	}
	err := windows.CloseHandle(c.handle)
	c.handle = windows.InvalidHandle
	return err
}

// IoControl 发送 IOCTL 请求到内核驱动。
//   - code: IOCTL 控制码
//   - in:   输入缓冲区（可为 nil）
//   - out:  输出缓冲区（可为 nil，此时仅取回所需大小）
//
// 返回驱动写回的字节数。
func (c *Client) IoControl(code uint32, in, out []byte) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == windows.InvalidHandle {
		return 0, openError(c.path, windows.ERROR_INVALID_HANDLE)
	}

	var inPtr, outPtr *byte
	if len(in) > 0 {
		inPtr = &in[0]
	}
	if len(out) > 0 {
		outPtr = &out[0]
	}

	var bytesReturned uint32
	err := windows.DeviceIoControl(
		c.handle,
		code,
		inPtr,
		uint32(len(in)),
		outPtr,
		uint32(len(out)),
		&bytesReturned,
		nil,
	)
	if err != nil {
		return 0, RequestError(code, err)
	}

	return bytesReturned, nil
}
