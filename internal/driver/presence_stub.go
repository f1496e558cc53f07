//go:build !windows

package driver

import (
	"syscall"

	"github.com/hashicorp/go-version"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

func unsupported(op string) error {
	return &hherr.Error{Kind: hherr.KindPlatform, Op: op, Code: errorCallNotImplemented, Err: syscall.Errno(errorCallNotImplemented)}
}

func InterfaceList() ([]string, error) { return nil, unsupported("query-interface-list") }

func IsInstalled() (bool, error) { return false, unsupported("is-installed") }

func IsDriverNodePresent() (bool, error) { return false, unsupported("query-driver-node") }

func LocalDriverVersion() (*version.Version, error) { return nil, unsupported("driver-version") }

func ServiceState(string) (string, error) { return "", unsupported("service-state") }
