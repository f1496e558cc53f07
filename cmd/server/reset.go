//go:build windows

package main

import (
	"fmt"
	"log/slog"

	"github.com/OpenSysKit/hidhide/internal/hidhide"
)

// runResetMode 在卸载驱动前把配置恢复为初始状态：停用隐藏，清空两个列表，取消反转。
func runResetMode(svc *hidhide.Service, logger *slog.Logger) error {
	logger.Info("进入重置模式")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"停用隐藏", func() error { return svc.SetActive(false) }},
		{"清空设备列表", svc.ClearBlockedInstances},
		{"清空应用列表", svc.ClearApplicationPaths},
		{"取消应用列表反转", func() error { return svc.SetAppListInverted(false) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s失败: %w", step.name, err)
		}
		logger.Info("完成", "step", step.name)
	}

	logger.Info("重置完成")
	return nil
}
