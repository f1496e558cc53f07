//go:build !windows

package volume

import (
	"os"
	"syscall"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

// System 在非 Windows 平台上没有卷映射，文件探测使用 os 包，符号链接视为重解析点。
func System() (Source, Prober) {
	return stubSource{}, osProber{}
}

type stubSource struct{}

func (stubSource) Mappings() ([]Mapping, error) {
	return nil, &hherr.Error{Kind: hherr.KindPlatform, Op: "volume-mappings", Code: 120, Err: syscall.Errno(120)}
}

type osProber struct{}

func (osProber) FileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func (osProber) DirExists(dir string) bool {
	fi, err := os.Stat(dir)
	return err == nil && fi.IsDir()
}

func (osProber) IsReparsePoint(dir string) (bool, error) {
	fi, err := os.Lstat(dir)
	if err != nil {
		return false, err
	}
	return fi.Mode()&os.ModeSymlink != 0, nil
}
