// Package hidhide 是 HidHide 过滤驱动的用户态控制客户端。
//
// 每个公开操作独立打开控制设备、完成请求后立即关闭句柄，句柄不在操作之间共享。
// 列表修改采用“读取-修改-写回”：先取回完整列表，在内存中合并或过滤、去重后整体写回。
// 驱动不提供比较并交换之类的原语，两个调用方并发修改同一列表时后写入者会覆盖前者的修改。
// 需要原子的多步更新时，由调用方自行串行化；本包不加锁，因为其他进程也不会遵守这把锁。
package hidhide

import (
	"io"
	"log/slog"

	"github.com/OpenSysKit/hidhide/internal/driver"
	"github.com/OpenSysKit/hidhide/internal/volume"
)

// PathTranslator 在用户路径与设备路径之间转换，*volume.Translator 实现了它。
type PathTranslator interface {
	PathToDevicePath(path string) (string, error)
	DevicePathToPath(devicePath string) (string, error)
}

// Presence 检测驱动是否安装。
type Presence interface {
	IsInstalled() (bool, error)
	IsDriverNodePresent() (bool, error)
}

// Options 配置 Service，零值即使用本机驱动和卷信息。
type Options struct {
	Logger     *slog.Logger
	Opener     driver.Opener
	Translator PathTranslator
	Presence   Presence
}

// Service 提供对 HidHide 驱动配置的读写。
type Service struct {
	log        *slog.Logger
	open       driver.Opener
	translator PathTranslator
	presence   Presence
}

// New 创建 Service。
func New(opts Options) *Service {
	s := &Service{
		log:        opts.Logger,
		open:       opts.Opener,
		translator: opts.Translator,
		presence:   opts.Presence,
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.open == nil {
		s.open = driver.OpenControlDevice
	}
	if s.translator == nil {
		s.translator = volume.NewSystem(s.log.With("component", "volume"))
	}
	if s.presence == nil {
		s.presence = systemPresence{}
	}
	return s
}

// Translator 返回 Service 使用的路径转换器。
func (s *Service) Translator() PathTranslator {
	return s.translator
}

// withDevice 打开控制设备执行 fn，任何返回路径上都会关闭句柄。
func (s *Service) withDevice(fn func(dev driver.Device) error) error {
	dev, err := s.open()
	if err != nil {
		return err
	}
	defer dev.Close()

	return fn(dev)
}

type systemPresence struct{}

func (systemPresence) IsInstalled() (bool, error)         { return driver.IsInstalled() }
func (systemPresence) IsDriverNodePresent() (bool, error) { return driver.IsDriverNodePresent() }

// IsInstalled 驱动的控制设备接口当前是否存在。
func (s *Service) IsInstalled() (bool, error) {
	return s.presence.IsInstalled()
}

// IsOperational 驱动接口存在并且软件设备节点也存在。
func (s *Service) IsOperational() (bool, error) {
	installed, err := s.presence.IsInstalled()
	if err != nil || !installed {
		return false, err
	}
	return s.presence.IsDriverNodePresent()
}
