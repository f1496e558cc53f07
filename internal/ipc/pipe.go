//go:build windows

package ipc

import (
	"context"
	"log/slog"
	"net"

	"github.com/Microsoft/go-winio"
)

// PipeName 控制服务监听的命名管道。
const PipeName = `\\.\pipe\HidHideControl`

// Listen 在 name 上创建字节流模式的命名管道监听器，sddl 为管道的安全描述符。
func Listen(name, sddl string, logger *slog.Logger) (net.Listener, error) {
	cfg := &winio.PipeConfig{
		SecurityDescriptor: sddl,
		MessageMode:        false,
		InputBufferSize:    65536,
		OutputBufferSize:   65536,
	}
	ln, err := winio.ListenPipe(name, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("正在监听命名管道", "pipe", name)
	return ln, nil
}

// Dial 连接到命名管道，ctx 取消或超时时放弃等待。
func Dial(ctx context.Context, name string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, name)
}
