//go:build !windows

package driver

import "syscall"

// Client 在非 Windows 平台上不可用。
type Client struct{}

// Open 在非 Windows 平台上总是失败。
func Open(devicePath string) (*Client, error) {
	return nil, openError(devicePath, syscall.Errno(errorCallNotImplemented))
}

func (c *Client) Close() error {
	return nil
}

func (c *Client) IoControl(code uint32, _, _ []byte) (uint32, error) {
	return 0, RequestError(code, syscall.Errno(errorCallNotImplemented))
}
