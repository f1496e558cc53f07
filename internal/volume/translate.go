package volume

import (
	"io"
	"log/slog"
	"regexp"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

var devicePathPrefix = regexp.MustCompile(`^(\\Device\\HarddiskVolume\d*)\\.*`)

// Translator 在用户路径与设备路径之间双向转换。
// 除了注入的 Source、Prober 和日志外不持有任何状态，可并发使用。
type Translator struct {
	source Source
	prober Prober
	log    *slog.Logger
}

// New 创建 Translator。logger 为 nil 时丢弃日志。
func New(source Source, prober Prober, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Translator{source: source, prober: prober, log: logger}
}

// NewSystem 使用本机卷信息和文件系统创建 Translator。
func NewSystem(logger *slog.Logger) *Translator {
	source, prober := System()
	return New(source, prober, logger)
}

// DevicePathToPath 把 \Device\HarddiskVolumeN\... 转换为挂载点路径。
func (t *Translator) DevicePathToPath(devicePath string) (string, error) {
	t.log.Debug("解析设备路径", "device_path", devicePath)

	match := devicePathPrefix.FindStringSubmatch(devicePath)
	if match == nil {
		t.log.Debug("设备路径前缀不匹配", "device_path", devicePath)
		return "", &hherr.Error{Kind: hherr.KindPrefixUnresolved, Op: "device-path-to-path", Path: devicePath}
	}
	prefix := match[1]

	mappings, err := t.source.Mappings()
	if err != nil {
		return "", err
	}
	m, ok := byDevicePath(mappings, prefix)
	if !ok {
		t.log.Debug("设备路径前缀没有对应的卷", "prefix", prefix)
		return "", &hherr.Error{Kind: hherr.KindPrefixUnresolved, Op: "device-path-to-path", Path: devicePath}
	}

	path := joinPath(m.MountPoint, relativeTo(devicePath, prefix))
	t.log.Debug("设备路径解析完成", "device_path", devicePath, "path", path)
	return path, nil
}

// PathToDevicePath 把已存在文件的路径转换为驱动使用的设备路径。
//
// 从文件所在目录向上查找第一个重解析点（联接点或卷挂载目录）。若该目录本身是某个卷的挂载点，
// 则使用该卷的设备路径，剩余部分相对于该目录计算；否则回退到路径所在盘符根目录的映射。
func (t *Translator) PathToDevicePath(path string) (string, error) {
	t.log.Debug("解析路径", "path", path)

	p := cleanPath(path)
	if !t.prober.FileExists(p) {
		t.log.Warn("路径不存在", "path", path)
		return "", &hherr.Error{Kind: hherr.KindPathNotFound, Op: "path-to-device-path", Path: path}
	}

	dir, file := splitPath(p)
	root := volumeRoot(dir)
	if root == "" {
		t.log.Warn("无法确定路径所在的卷", "path", path)
		return "", &hherr.Error{Kind: hherr.KindMappingUnresolved, Op: "path-to-device-path", Path: path}
	}

	mappings, err := t.source.Mappings()
	if err != nil {
		return "", err
	}

	var prefix, rest string
	for cur, ok := dir, true; ok && t.prober.DirExists(cur); cur, ok = parentDir(cur) {
		reparse, err := t.prober.IsReparsePoint(cur)
		if err != nil {
			return "", err
		}
		if !reparse {
			continue
		}
		if m, found := byMountPoint(mappings, cur); found {
			prefix, rest = m.DevicePath, relativeTo(dir, cur)
			t.log.Debug("重解析点映射到设备路径", "dir", cur, "device_path", prefix)
		} else {
			t.log.Debug("重解析点没有对应的卷", "dir", cur)
		}
		break
	}

	if prefix == "" {
		m, found := byMountPoint(mappings, root)
		if !found {
			t.log.Warn("盘符根目录没有对应的卷", "path", path, "root", root)
			return "", &hherr.Error{Kind: hherr.KindMappingUnresolved, Op: "path-to-device-path", Path: path}
		}
		prefix, rest = m.DevicePath, relativeTo(dir, root)
	}

	devicePath := joinPath(prefix, rest, file)
	t.log.Debug("路径解析完成", "path", path, "device_path", devicePath)
	return devicePath, nil
}
