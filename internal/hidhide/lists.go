package hidhide

import (
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/hashicorp/go-multierror"

	"github.com/OpenSysKit/hidhide/internal/driver"
	"github.com/OpenSysKit/hidhide/internal/hherr"
	"github.com/OpenSysKit/hidhide/internal/multisz"
)

// maxListBytes 驱动用有符号 16 位数表示列表长度，达到该值即视为溢出。
const maxListBytes = 32767

// getList 两阶段读取列表：先以空输出缓冲区取得所需字节数，再按该大小分配并重新请求。
func getList(dev driver.Device, code uint32) ([]string, error) {
	required, err := dev.IoControl(code, nil, nil)
	if err != nil {
		return nil, driver.RequestError(code, err)
	}
	if required >= maxListBytes {
		return nil, &hherr.Error{Kind: hherr.KindBufferOverflow, Op: driver.IoctlName(code)}
	}
	if required == 0 {
		return nil, nil
	}

	buf := make([]byte, required)
	n, err := dev.IoControl(code, nil, buf)
	if err != nil {
		return nil, driver.RequestError(code, err)
	}
	if n > required {
		n = required
	}
	return multisz.Decode(buf[:n]), nil
}

// setList 编码并整体写回列表，编码后超过上限时不发起请求。
func setList(dev driver.Device, code uint32, list []string) error {
	buf := multisz.Encode(list)
	if len(buf) >= maxListBytes {
		return &hherr.Error{Kind: hherr.KindBufferOverflow, Op: driver.IoctlName(code)}
	}
	if _, err := dev.IoControl(code, buf, nil); err != nil {
		return driver.RequestError(code, err)
	}
	return nil
}

// dedupe 忽略大小写去重，保留首次出现的顺序与写法。
func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		k := strings.ToUpper(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// BlockedInstanceIDs 返回被隐藏的设备实例 ID。
func (s *Service) BlockedInstanceIDs() ([]string, error) {
	var ids []string
	err := s.withDevice(func(dev driver.Device) error {
		var err error
		ids, err = getList(dev, driver.IOCTL_GET_BLACKLIST)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("读取设备列表", "count", len(ids))
	return ids, nil
}

// AddBlockedInstanceID 隐藏一个设备实例，已存在时不重复添加。
func (s *Service) AddBlockedInstanceID(id string) error {
	return s.AddBlockedInstanceIDs(id)
}

// AddBlockedInstanceIDs 在一次读取-修改-写回中添加多个实例 ID。任何一个 ID 非法时都不写入。
func (s *Service) AddBlockedInstanceIDs(ids ...string) error {
	var errs *multierror.Error
	for _, id := range ids {
		if id == "" {
			errs = multierror.Append(errs, fmt.Errorf("实例 ID 不能为空: %w", errdefs.ErrInvalidArgument))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}

	s.log.Debug("添加设备", "ids", ids)
	return s.withDevice(func(dev driver.Device) error {
		current, err := getList(dev, driver.IOCTL_GET_BLACKLIST)
		if err != nil {
			return err
		}
		return setList(dev, driver.IOCTL_SET_BLACKLIST, dedupe(append(current, ids...)))
	})
}

// RemoveBlockedInstanceID 取消隐藏一个设备实例，不存在时不报错。
func (s *Service) RemoveBlockedInstanceID(id string) error {
	s.log.Debug("移除设备", "id", id)
	return s.withDevice(func(dev driver.Device) error {
		current, err := getList(dev, driver.IOCTL_GET_BLACKLIST)
		if err != nil {
			return err
		}
		kept := current[:0]
		for _, v := range current {
			if !strings.EqualFold(v, id) {
				kept = append(kept, v)
			}
		}
		return setList(dev, driver.IOCTL_SET_BLACKLIST, dedupe(kept))
	})
}

// ClearBlockedInstances 清空设备列表。不读取现有列表，损坏或过大的列表也能被重置。
func (s *Service) ClearBlockedInstances() error {
	s.log.Debug("清空设备列表")
	return s.withDevice(func(dev driver.Device) error {
		return setList(dev, driver.IOCTL_SET_BLACKLIST, nil)
	})
}

// ApplicationDevicePaths 返回驱动中保存的原始设备路径。
func (s *Service) ApplicationDevicePaths() ([]string, error) {
	var paths []string
	err := s.withDevice(func(dev driver.Device) error {
		var err error
		paths, err = getList(dev, driver.IOCTL_GET_WHITELIST)
		return err
	})
	return paths, err
}

// ApplicationPaths 返回应用列表的用户路径形式，无法转换回用户路径的条目被忽略。
func (s *Service) ApplicationPaths() ([]string, error) {
	raw, err := s.ApplicationDevicePaths()
	if err != nil {
		return nil, err
	}
	return s.toUserPaths(raw), nil
}

func (s *Service) toUserPaths(devicePaths []string) []string {
	out := make([]string, 0, len(devicePaths))
	for _, d := range devicePaths {
		p, err := s.translator.DevicePathToPath(d)
		if err != nil {
			s.log.Warn("忽略无法解析的应用条目", "device_path", d, "error", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

// toDevicePaths 把用户路径重新解析为设备路径，解析失败的条目被丢弃。
func (s *Service) toDevicePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		d, err := s.translator.PathToDevicePath(p)
		if err != nil {
			s.log.Warn("丢弃无法解析的应用条目", "path", p, "error", err)
			continue
		}
		out = append(out, d)
	}
	return out
}

// AddApplicationPath 把应用加入列表。路径必须指向已存在的文件，否则返回 path-not-found 且不修改列表。
func (s *Service) AddApplicationPath(path string) error {
	return s.AddApplicationPaths(path)
}

// AddApplicationPaths 在一次读取-修改-写回中添加多个应用。
// 所有新路径先逐个解析，任何一个失败都不会访问驱动，错误汇总返回。
func (s *Service) AddApplicationPaths(paths ...string) error {
	var (
		errs  *multierror.Error
		added []string
	)
	for _, p := range paths {
		d, err := s.translator.PathToDevicePath(p)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		added = append(added, d)
	}
	if err := errs.ErrorOrNil(); err != nil {
		if len(paths) == 1 {
			return errs.Errors[0]
		}
		return err
	}

	s.log.Debug("添加应用", "paths", paths, "device_paths", added)
	return s.modifyApplications(func(current []string) []string {
		return append(current, added...)
	})
}

// AddApplicationPathLenient 与 AddApplicationPath 相同，但路径不存在时直接跳过并返回 false，不访问驱动。
func (s *Service) AddApplicationPathLenient(path string) (bool, error) {
	if _, err := s.translator.PathToDevicePath(path); err != nil {
		if hherr.KindOf(err) == hherr.KindPathNotFound {
			s.log.Debug("跳过不存在的应用", "path", path)
			return false, nil
		}
		return false, err
	}
	if err := s.AddApplicationPath(path); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveApplicationPath 从列表中移除应用，不存在时不报错。
// 条目按忽略大小写的方式匹配：与 path 本身相同、与 path 解析出的设备路径相同，
// 或其转换回的用户路径与 path 相同。同一个卷可能有多个挂载点，所以仅比较转换回的用户路径并不够。
func (s *Service) RemoveApplicationPath(path string) error {
	target, err := s.translator.PathToDevicePath(path)
	if err != nil {
		s.log.Debug("无法解析待移除的路径，仅按已有条目匹配", "path", path, "error", err)
		target = ""
	}

	s.log.Debug("移除应用", "path", path, "device_path", target)
	return s.modifyApplications(func(current []string) []string {
		kept := current[:0]
		for _, d := range current {
			if strings.EqualFold(d, path) || (target != "" && strings.EqualFold(d, target)) {
				continue
			}
			if p, err := s.translator.DevicePathToPath(d); err == nil && strings.EqualFold(p, path) {
				continue
			}
			kept = append(kept, d)
		}
		return kept
	})
}

// ClearApplicationPaths 清空应用列表，不读取现有列表。
func (s *Service) ClearApplicationPaths() error {
	s.log.Debug("清空应用列表")
	return s.withDevice(func(dev driver.Device) error {
		return setList(dev, driver.IOCTL_SET_WHITELIST, nil)
	})
}

// modifyApplications 读取应用列表，经 edit 修改后把每个条目重新解析为规范设备路径再写回。
// 已有条目若已无法解析（文件被删除、卷被移除）则被丢弃。
func (s *Service) modifyApplications(edit func(devicePaths []string) []string) error {
	return s.withDevice(func(dev driver.Device) error {
		current, err := getList(dev, driver.IOCTL_GET_WHITELIST)
		if err != nil {
			return err
		}

		edited := edit(current)
		resolved := make([]string, 0, len(edited))
		for _, d := range edited {
			p, err := s.translator.DevicePathToPath(d)
			if err != nil {
				s.log.Warn("丢弃无法解析的应用条目", "device_path", d, "error", err)
				continue
			}
			resolved = append(resolved, s.toDevicePaths([]string{p})...)
		}

		return setList(dev, driver.IOCTL_SET_WHITELIST, dedupe(resolved))
	})
}
