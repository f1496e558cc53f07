// Package volume 在用户路径（C:\...）与驱动使用的设备路径（\Device\HarddiskVolumeN\...）之间转换。
// 转换依赖卷映射表：每个已挂载卷的挂载点与其底层设备路径。映射表每次转换时重新构建，不做缓存。
package volume

import "strings"

// Mapping 表示一个挂载点到设备路径的映射。
// 同一个卷挂载在多个位置时，每个挂载点各有一条 Mapping。
type Mapping struct {
	MountPoint string // C:\ 或 D:\mnt\data\
	VolumeName string // \\?\Volume{GUID}\
	DevicePath string // \Device\HarddiskVolume3
}

// IsDriveLetter 挂载点是否为盘符根目录。
func (m Mapping) IsDriveLetter() bool {
	p := strings.TrimRight(m.MountPoint, `\`)
	return len(p) == 2 && p[1] == ':' && isLetter(p[0])
}

// Source 提供当前的卷映射表。
type Source interface {
	Mappings() ([]Mapping, error)
}

// Prober 查询文件系统状态。
type Prober interface {
	FileExists(path string) bool
	DirExists(dir string) bool
	IsReparsePoint(dir string) (bool, error)
}

// byDevicePath 按设备路径查找映射，忽略大小写，优先返回盘符挂载点。
func byDevicePath(mappings []Mapping, devicePath string) (Mapping, bool) {
	var found Mapping
	ok := false
	for _, m := range mappings {
		if !strings.EqualFold(m.DevicePath, devicePath) {
			continue
		}
		if m.IsDriveLetter() {
			return m, true
		}
		if !ok {
			found, ok = m, true
		}
	}
	return found, ok
}

// byMountPoint 按挂载点查找映射，比较前两边都做规范化。
func byMountPoint(mappings []Mapping, dir string) (Mapping, bool) {
	for _, m := range mappings {
		if m.MountPoint != "" && samePath(m.MountPoint, dir) {
			return m, true
		}
	}
	return Mapping{}, false
}
