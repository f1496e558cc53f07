//go:build windows

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/OpenSysKit/hidhide/internal/driver"
	"github.com/OpenSysKit/hidhide/internal/hidhide"
	"github.com/OpenSysKit/hidhide/internal/ipc"
	"github.com/OpenSysKit/hidhide/internal/logging"
	rpcserver "github.com/OpenSysKit/hidhide/internal/rpc"
	"github.com/OpenSysKit/hidhide/internal/security"
)

// 由 -ldflags 在编译时注入
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		verbose bool
		reset   bool
	)
	cmd := &cobra.Command{
		Use:           "hidhide-server",
		Short:         "通过命名管道提供 HidHide 驱动配置的 JSON-RPC 服务",
		Version:       fmt.Sprintf("%s (构建时间: %s)", version, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			logger := logging.Setup(verbose)
			svc := hidhide.New(hidhide.Options{Logger: logger})
			if reset {
				return runResetMode(svc, logger)
			}
			return run(svc, logger)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	cmd.Flags().BoolVar(&reset, "reset", false, "清空设备与应用列表并停用隐藏后退出")

	if err := cmd.Execute(); err != nil {
		slog.Error("服务退出", "error", err)
		os.Exit(1)
	}
}

func run(svc *hidhide.Service, logger *slog.Logger) error {
	logger.Info("HidHide 控制服务正在启动", "version", version, "build_time", buildTime)

	if installed, err := svc.IsInstalled(); err != nil {
		logger.Warn("检测驱动失败", "error", err)
	} else if !installed {
		logger.Warn("未检测到 HidHide 驱动，请求将返回 driver-not-found")
	} else if v, err := driver.LocalDriverVersion(); err == nil {
		logger.Info("检测到驱动", "driver_version", v.String())
	}

	sddl, err := security.BuildPipeSecurityDescriptor()
	if err != nil {
		logger.Warn("读取当前用户 SID 失败，管道仅允许 SYSTEM 与管理员访问", "error", err)
	}

	// 创建 IPC 监听（命名管道）
	ln, err := ipc.Listen(ipc.PipeName, sddl, logger)
	if err != nil {
		return fmt.Errorf("创建 IPC 监听器失败: %w", err)
	}
	defer ln.Close()

	srv, err := rpcserver.NewServer(svc, security.ValidatePipeClient, logger)
	if err != nil {
		return fmt.Errorf("创建 RPC 服务器失败: %w", err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil {
			logger.Info("RPC 服务器已停止", "error", err)
		}
	}()

	logger.Info("HidHide 控制服务已启动，等待客户端连接")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("正在关闭服务")
	return nil
}
