package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenSysKit/hidhide/internal/driver"
	"github.com/OpenSysKit/hidhide/internal/hidhide"
)

type statusReport struct {
	Installed     bool   `json:"installed"`
	Operational   bool   `json:"operational"`
	Active        bool   `json:"active"`
	Inverted      bool   `json:"inverted"`
	DriverVersion string `json:"driver_version,omitempty"`
	ServiceState  string `json:"service_state,omitempty"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "显示驱动安装状态与开关",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var r statusReport
			var err error
			if r.Installed, err = a.svc.IsInstalled(); err != nil {
				return err
			}
			if r.Operational, err = a.svc.IsOperational(); err != nil {
				a.log.Warn("查询驱动节点失败", "error", err)
			}
			if v, err := driver.LocalDriverVersion(); err == nil {
				r.DriverVersion = v.String()
			}
			if state, err := driver.ServiceState(driver.ServiceName); err == nil {
				r.ServiceState = state
			}
			if r.Installed {
				if r.Active, err = a.svc.IsActive(); err != nil {
					return err
				}
				if r.Inverted, err = a.svc.IsAppListInverted(); err != nil {
					return err
				}
			}

			lines := []string{
				fmt.Sprintf("installed:   %t", r.Installed),
				fmt.Sprintf("operational: %t", r.Operational),
				fmt.Sprintf("active:      %s", onOff(r.Active)),
				fmt.Sprintf("inverted:    %s", onOff(r.Inverted)),
			}
			if r.DriverVersion != "" {
				lines = append(lines, "driver:      "+r.DriverVersion)
			}
			if r.ServiceState != "" {
				lines = append(lines, "service:     "+r.ServiceState)
			}
			return a.print(r, lines...)
		},
	}
}

func newFlagCmd(a *app, use, short string, get func(*hidhide.Service) (bool, error), set func(*hidhide.Service, bool) error) *cobra.Command {
	return &cobra.Command{
		Use:       use + " [on|off]",
		Short:     short,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				v, err := parseSwitch(args[0])
				if err != nil {
					return err
				}
				if err := set(a.svc, v); err != nil {
					return err
				}
			}
			v, err := get(a.svc)
			if err != nil {
				return err
			}
			return a.print(map[string]bool{use: v}, onOff(v))
		},
	}
}

func newDevicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "管理被隐藏的设备实例",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "列出被隐藏的设备实例 ID",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				ids, err := a.svc.BlockedInstanceIDs()
				if err != nil {
					return err
				}
				return a.printList(ids)
			},
		},
		&cobra.Command{
			Use:   "add <instance-id>...",
			Short: "隐藏设备实例",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.svc.AddBlockedInstanceIDs(args...)
			},
		},
		&cobra.Command{
			Use:   "remove <instance-id>",
			Short: "取消隐藏设备实例",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.svc.RemoveBlockedInstanceID(args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "清空设备列表",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.svc.ClearBlockedInstances()
			},
		},
	)
	return cmd
}

func newAppsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "管理应用列表",
	}

	var raw bool
	list := &cobra.Command{
		Use:   "list",
		Short: "列出应用",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var (
				items []string
				err   error
			)
			if raw {
				items, err = a.svc.ApplicationDevicePaths()
			} else {
				items, err = a.svc.ApplicationPaths()
			}
			if err != nil {
				return err
			}
			return a.printList(items)
		},
	}
	list.Flags().BoolVar(&raw, "raw", false, "显示驱动中保存的设备路径")

	var lenient bool
	add := &cobra.Command{
		Use:   "add <path>...",
		Short: "添加应用，路径必须指向已存在的文件",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			paths := make([]string, 0, len(args))
			for _, p := range args {
				abs, err := absPath(p)
				if err != nil {
					return err
				}
				paths = append(paths, abs)
			}
			if !lenient {
				return a.svc.AddApplicationPaths(paths...)
			}
			for _, p := range paths {
				added, err := a.svc.AddApplicationPathLenient(p)
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintf(a.out, "跳过不存在的文件: %s\n", p)
				}
			}
			return nil
		},
	}
	add.Flags().BoolVar(&lenient, "lenient", false, "跳过不存在的文件而不报错")

	cmd.AddCommand(
		list,
		add,
		&cobra.Command{
			Use:   "remove <path>",
			Short: "移除应用",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				p, err := absPath(args[0])
				if err != nil {
					return err
				}
				return a.svc.RemoveApplicationPath(p)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "清空应用列表",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.svc.ClearApplicationPaths()
			},
		},
	)
	return cmd
}

func newTranslateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "在用户路径与设备路径之间转换",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "to-device <path>",
			Short: "把文件路径转换为设备路径",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				p, err := absPath(args[0])
				if err != nil {
					return err
				}
				d, err := a.svc.Translator().PathToDevicePath(p)
				if err != nil {
					return err
				}
				return a.print(map[string]string{"path": p, "device_path": d}, d)
			},
		},
		&cobra.Command{
			Use:   "to-path <device-path>",
			Short: "把设备路径转换为用户路径",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				p, err := a.svc.Translator().DevicePathToPath(args[0])
				if err != nil {
					return err
				}
				return a.print(map[string]string{"path": p, "device_path": args[0]}, p)
			},
		},
	)
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			info := map[string]string{"version": version, "build_time": buildTime}
			lines := []string{fmt.Sprintf("hidhidectl %s (构建时间: %s)", version, buildTime)}
			if v, err := driver.LocalDriverVersion(); err == nil {
				info["driver_version"] = v.String()
				lines = append(lines, "driver "+v.String())
			}
			return a.print(info, lines...)
		},
	}
}

// absPath 把相对路径补全为绝对路径，带盘符或以反斜杠开头（UNC、设备路径）的路径原样返回。
func absPath(p string) (string, error) {
	if (len(p) >= 2 && p[1] == ':') || strings.HasPrefix(p, `\`) {
		return p, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("无法解析路径 %s: %w", p, err)
	}
	return abs, nil
}
