//go:build windows

package volume

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/OpenSysKit/hidhide/internal/multisz"
)

// System 返回基于 Win32 卷管理 API 与文件属性的实现。
func System() (Source, Prober) {
	return systemSource{}, systemProber{}
}

type systemSource struct{}

// Mappings 枚举所有卷，没有挂载点或无法查询设备名的卷被跳过。
func (systemSource) Mappings() ([]Mapping, error) {
	name := make([]uint16, windows.MAX_PATH+1)
	h, err := windows.FindFirstVolume(&name[0], uint32(len(name)))
	if err != nil {
		return nil, errors.Wrap(err, "failed calling FindFirstVolume")
	}
	defer windows.FindVolumeClose(h)

	var out []Mapping
	for {
		volume := windows.UTF16ToString(name)
		mounts, err := mountPoints(volume)
		if err == nil && len(mounts) > 0 {
			if device, err := dosDevice(volume); err == nil {
				for _, mp := range mounts {
					out = append(out, Mapping{MountPoint: mp, VolumeName: volume, DevicePath: device})
				}
			}
		}

		if err := windows.FindNextVolume(h, &name[0], uint32(len(name))); err != nil {
			if err == windows.ERROR_NO_MORE_FILES {
				break
			}
			return nil, errors.Wrap(err, "failed calling FindNextVolume")
		}
	}
	return out, nil
}

// mountPoints 返回卷（\\?\Volume{GUID}\ 格式）的全部挂载点。
func mountPoints(volume string) ([]string, error) {
	if !strings.HasSuffix(volume, `\`) {
		volume += `\`
	}
	volumeP, err := windows.UTF16PtrFromString(volume)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to utf16-ise %s", volume)
	}

	var length uint32
	err = windows.GetVolumePathNamesForVolumeName(volumeP, nil, 0, &length)
	if err == nil {
		// 空列表也至少包含一个 NUL
		return nil, errors.Errorf("unexpected success of GetVolumePathNamesForVolumeName('%s', nil, 0, ...)", volume)
	} else if err != windows.ERROR_MORE_DATA {
		return nil, errors.Wrapf(err, "failed calling GetVolumePathNamesForVolumeName('%s', nil, 0, ...)", volume)
	}

	buf := make([]uint16, length)
	if err := windows.GetVolumePathNamesForVolumeName(volumeP, &buf[0], length, &length); err != nil {
		return nil, errors.Wrapf(err, "failed calling GetVolumePathNamesForVolumeName('%s', ..., %d, ...)", volume, len(buf))
	}
	return multisz.DecodeUTF16(buf), nil
}

// dosDevice 查询卷对应的 NT 设备路径。QueryDosDevice 需要去掉 \\?\ 前缀和结尾反斜杠的卷名。
func dosDevice(volume string) (string, error) {
	name := strings.TrimSuffix(strings.TrimPrefix(volume, `\\?\`), `\`)
	nameP, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return "", errors.Wrapf(err, "unable to utf16-ise %s", name)
	}

	target := make([]uint16, 1024)
	n, err := windows.QueryDosDevice(nameP, &target[0], uint32(len(target)))
	if err != nil {
		return "", errors.Wrapf(err, "failed calling QueryDosDevice('%s')", name)
	}
	devices := multisz.DecodeUTF16(target[:n])
	if len(devices) == 0 {
		return "", errors.Errorf("QueryDosDevice('%s') returned no target", name)
	}
	return devices[0], nil
}

type systemProber struct{}

func attributes(path string) (uint32, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	return windows.GetFileAttributes(p)
}

func (systemProber) FileExists(path string) bool {
	attrs, err := attributes(path)
	return err == nil && attrs&windows.FILE_ATTRIBUTE_DIRECTORY == 0
}

func (systemProber) DirExists(dir string) bool {
	attrs, err := attributes(dir)
	return err == nil && attrs&windows.FILE_ATTRIBUTE_DIRECTORY != 0
}

func (systemProber) IsReparsePoint(dir string) (bool, error) {
	attrs, err := attributes(dir)
	if err != nil {
		return false, errors.Wrapf(err, "failed calling GetFileAttributes('%s')", dir)
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0, nil
}
