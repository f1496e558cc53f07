//go:build windows

package security

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// 控制管道默认只对 SYSTEM 与 Administrators 开放，服务进程的用户另行追加。
const basePipeSDDL = "D:P(A;;GA;;;SY)(A;;GA;;;BA)"

// pipeClient 描述命名管道另一端的进程。
type pipeClient struct {
	pid uint32
	sid string
}

// BuildPipeSecurityDescriptor 返回控制管道的 SDDL：SYSTEM、Administrators 与当前进程用户。
// 取不到当前用户时仍返回基础 SDDL 和错误，由调用方决定是否继续。
func BuildPipeSecurityDescriptor() (string, error) {
	sid, err := CurrentUserSIDString()
	if err != nil {
		return basePipeSDDL, err
	}
	return basePipeSDDL + "(A;;GA;;;" + sid + ")", nil
}

// ValidatePipeClient 只接受与服务进程同一用户的客户端。
// 设置了 HIDHIDE_PIPE_ALLOWED_IMAGES 时，客户端的可执行文件名还必须在白名单中。
func ValidatePipeClient(conn net.Conn) error {
	client, err := identifyPipeClient(conn)
	if err != nil {
		return err
	}

	self, err := CurrentUserSIDString()
	if err != nil {
		return fmt.Errorf("读取服务进程 SID 失败: %w", err)
	}
	if !strings.EqualFold(client.sid, self) {
		return fmt.Errorf("客户端用户不匹配(pid=%d, sid=%s)", client.pid, client.sid)
	}

	allowed := ParseAllowedImages(os.Getenv(EnvAllowedImages))
	if len(allowed) == 0 {
		return nil
	}
	image, err := processImagePath(client.pid)
	if err != nil {
		return fmt.Errorf("读取客户端进程路径失败(pid=%d): %w", client.pid, err)
	}
	if !allowed.Contains(image) {
		return fmt.Errorf("客户端进程不在白名单(pid=%d, image=%s)", client.pid, filepath.Base(image))
	}
	return nil
}

// CurrentUserSIDString 返回当前进程令牌的用户 SID。
func CurrentUserSIDString() (string, error) {
	return tokenUserSID(windows.CurrentProcess())
}

func identifyPipeClient(conn net.Conn) (pipeClient, error) {
	f, ok := conn.(interface{ Fd() uintptr })
	if !ok {
		return pipeClient{}, errors.New("连接不是命名管道")
	}

	var c pipeClient
	if err := windows.GetNamedPipeClientProcessId(windows.Handle(f.Fd()), &c.pid); err != nil {
		return pipeClient{}, fmt.Errorf("读取管道客户端 PID 失败: %w", err)
	}

	proc, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, c.pid)
	if err != nil {
		return pipeClient{}, fmt.Errorf("打开客户端进程失败(pid=%d): %w", c.pid, err)
	}
	defer windows.CloseHandle(proc)

	if c.sid, err = tokenUserSID(proc); err != nil {
		return pipeClient{}, fmt.Errorf("读取客户端 SID 失败(pid=%d): %w", c.pid, err)
	}
	return c, nil
}

// tokenUserSID 读取进程令牌中的用户 SID。
func tokenUserSID(proc windows.Handle) (string, error) {
	var token windows.Token
	if err := windows.OpenProcessToken(proc, windows.TOKEN_QUERY, &token); err != nil {
		return "", err
	}
	defer token.Close()

	user, err := token.GetTokenUser()
	if err != nil {
		return "", err
	}
	return user.User.Sid.String(), nil
}

func processImagePath(pid uint32) (string, error) {
	proc, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(proc)

	buf := make([]uint16, windows.MAX_PATH*4)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(proc, 0, &buf[0], &size); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf[:size]), nil
}
