package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenSysKit/hidhide/internal/hidhide"
	"github.com/OpenSysKit/hidhide/internal/logging"
)

type app struct {
	out     io.Writer
	verbose bool
	jsonOut bool

	// newService 在命令执行前创建 Service，测试中替换为使用假驱动的实现。
	newService func(logger *slog.Logger) *hidhide.Service
	svc        *hidhide.Service
	log        *slog.Logger
}

func newApp(out io.Writer) *app {
	return &app{
		out: out,
		newService: func(logger *slog.Logger) *hidhide.Service {
			return hidhide.New(hidhide.Options{Logger: logger})
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "hidhidectl",
		Short:         "查看和修改 HidHide 驱动配置",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.log = logging.Setup(a.verbose)
			a.svc = a.newService(a.log)
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "输出调试日志")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "以 JSON 格式输出")

	root.AddCommand(
		newStatusCmd(a),
		newFlagCmd(a, "active", "查看或设置设备隐藏开关",
			func(s *hidhide.Service) (bool, error) { return s.IsActive() },
			func(s *hidhide.Service, v bool) error { return s.SetActive(v) }),
		newFlagCmd(a, "invert", "查看或设置应用列表反转开关",
			func(s *hidhide.Service) (bool, error) { return s.IsAppListInverted() },
			func(s *hidhide.Service, v bool) error { return s.SetAppListInverted(v) }),
		newDevicesCmd(a),
		newAppsCmd(a),
		newTranslateCmd(a),
		newVersionCmd(a),
	)
	return root
}

// print 按 --json 输出 v，否则逐行输出 lines。
func (a *app) print(v any, lines ...string) error {
	if a.jsonOut {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(a.out, l); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printList(items []string) error {
	if items == nil {
		items = []string{}
	}
	return a.print(items, items...)
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "enable", "enabled":
		return true, nil
	case "off", "false", "0", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("无效的开关值 %q，应为 on 或 off", s)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
