package hidhide

import (
	"strings"
	"syscall"

	"github.com/OpenSysKit/hidhide/internal/driver"
	"github.com/OpenSysKit/hidhide/internal/hherr"
	"github.com/OpenSysKit/hidhide/internal/multisz"
	"github.com/OpenSysKit/hidhide/internal/volume"
)

// fakeDriver 在内存中模拟 HidHide 驱动的列表与开关语义。
type fakeDriver struct {
	whitelist []string
	blacklist []string
	active    bool
	inverse   bool

	reportSize uint32 // 非零时 GET 第一阶段直接返回该值
	failCode   uint32
	openErr    error

	calls  []uint32
	opens  int
	closes int
}

func (f *fakeDriver) Open() (driver.Device, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opens++
	return &fakeHandle{f: f}, nil
}

func (f *fakeDriver) countCalls(code uint32) int {
	n := 0
	for _, c := range f.calls {
		if c == code {
			n++
		}
	}
	return n
}

type fakeHandle struct {
	f      *fakeDriver
	closed bool
}

func (h *fakeHandle) Close() error {
	if !h.closed {
		h.closed = true
		h.f.closes++
	}
	return nil
}

func (h *fakeHandle) IoControl(code uint32, in, out []byte) (uint32, error) {
	f := h.f
	f.calls = append(f.calls, code)
	if code == f.failCode {
		return 0, driver.RequestError(code, syscall.Errno(31))
	}

	switch code {
	case driver.IOCTL_GET_WHITELIST:
		return h.getList(code, f.whitelist, out)
	case driver.IOCTL_GET_BLACKLIST:
		return h.getList(code, f.blacklist, out)
	case driver.IOCTL_SET_WHITELIST:
		f.whitelist = multisz.Decode(in)
	case driver.IOCTL_SET_BLACKLIST:
		f.blacklist = multisz.Decode(in)
	case driver.IOCTL_GET_ACTIVE:
		return putFlag(code, f.active, out)
	case driver.IOCTL_GET_WL_INVERSE:
		return putFlag(code, f.inverse, out)
	case driver.IOCTL_SET_ACTIVE:
		f.active = in[0] > 0
	case driver.IOCTL_SET_WL_INVERSE:
		f.inverse = in[0] > 0
	default:
		return 0, driver.RequestError(code, syscall.Errno(1))
	}
	return 0, nil
}

func (h *fakeHandle) getList(code uint32, list []string, out []byte) (uint32, error) {
	data := multisz.Encode(list)
	if out == nil {
		if h.f.reportSize != 0 {
			return h.f.reportSize, nil
		}
		return uint32(len(data)), nil
	}
	if len(out) < len(data) {
		return 0, driver.RequestError(code, syscall.Errno(122))
	}
	return uint32(copy(out, data)), nil
}

func putFlag(code uint32, v bool, out []byte) (uint32, error) {
	if len(out) < 1 {
		return 0, driver.RequestError(code, syscall.Errno(122))
	}
	out[0] = 0
	if v {
		out[0] = 1
	}
	return 1, nil
}

// fakeTranslator 只认识登记过的文件。
type fakeTranslator struct {
	files [][2]string // {用户路径, 设备路径}
}

func (t *fakeTranslator) add(path, devicePath string) *fakeTranslator {
	t.files = append(t.files, [2]string{path, devicePath})
	return t
}

func (t *fakeTranslator) PathToDevicePath(path string) (string, error) {
	for _, f := range t.files {
		if strings.EqualFold(f[0], path) {
			return f[1], nil
		}
	}
	return "", &hherr.Error{Kind: hherr.KindPathNotFound, Op: "path-to-device-path", Path: path}
}

func (t *fakeTranslator) DevicePathToPath(devicePath string) (string, error) {
	for _, f := range t.files {
		if strings.EqualFold(f[1], devicePath) {
			return f[0], nil
		}
	}
	return "", &hherr.Error{Kind: hherr.KindPrefixUnresolved, Op: "device-path-to-path", Path: devicePath}
}

// mountTable 以固定的卷映射表和文件集合驱动真实的 volume.Translator。
type mountTable struct {
	mappings []volume.Mapping
	files    map[string]bool
	dirs     map[string]bool
	reparse  map[string]bool
}

func fsKey(p string) string {
	return strings.ToUpper(strings.TrimRight(p, `\`))
}

func newMountTable(mappings ...volume.Mapping) *mountTable {
	return &mountTable{mappings: mappings, files: map[string]bool{}, dirs: map[string]bool{}, reparse: map[string]bool{}}
}

// file 登记文件及其所有上级目录。
func (m *mountTable) file(path string) *mountTable {
	m.files[fsKey(path)] = true
	for dir := path; ; {
		i := strings.LastIndex(dir, `\`)
		if i < 0 {
			break
		}
		dir = dir[:i]
		m.dirs[fsKey(dir)] = true
	}
	return m
}

func (m *mountTable) junction(dir string) *mountTable {
	m.reparse[fsKey(dir)] = true
	return m
}

func (m *mountTable) Mappings() ([]volume.Mapping, error) { return m.mappings, nil }

func (m *mountTable) FileExists(path string) bool { return m.files[fsKey(path)] }

func (m *mountTable) DirExists(dir string) bool { return m.dirs[fsKey(dir)] }

func (m *mountTable) IsReparsePoint(dir string) (bool, error) { return m.reparse[fsKey(dir)], nil }

type fakePresence struct {
	installed, node bool
	err             error
}

func (p fakePresence) IsInstalled() (bool, error)         { return p.installed, p.err }
func (p fakePresence) IsDriverNodePresent() (bool, error) { return p.node, nil }
