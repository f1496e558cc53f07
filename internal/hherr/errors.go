// Package hherr 定义与 HidHide 驱动交互时可区分的错误类别。
//
// 每个错误都是 *Error，携带 Kind 以及原始平台错误码（Win32 / CONFIGRET），
// 调用方通过 errors.Is(err, hherr.ErrXxx) 或 KindOf(err) 判断类别，
// 也可以使用 containerd/errdefs 的通用分类（errdefs.IsNotFound 等）。
package hherr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown Kind = iota

	// 控制通道
	KindAccessDenied
	KindDriverNotFound
	KindHandleInvalid
	KindPlatform

	// 请求
	KindRequestFailed
	KindBufferOverflow

	// 驱动检测
	KindDetectionFailed
	KindMultipleDeviceNodes

	// 路径转换
	KindPathNotFound
	KindPrefixUnresolved
	KindMappingUnresolved
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindAccessDenied:        "access-denied",
	KindDriverNotFound:      "driver-not-found",
	KindHandleInvalid:       "handle-invalid",
	KindPlatform:            "platform-error",
	KindRequestFailed:       "request-failed",
	KindBufferOverflow:      "buffer-overflow",
	KindDetectionFailed:     "detection-failed",
	KindMultipleDeviceNodes: "multiple-device-nodes",
	KindPathNotFound:        "path-not-found",
	KindPrefixUnresolved:    "prefix-unresolved",
	KindMappingUnresolved:   "mapping-unresolved",
}

var kindMessages = map[Kind]string{
	KindUnknown:             "未知错误",
	KindAccessDenied:        "无法打开驱动控制设备，可能有其他进程正在使用",
	KindDriverNotFound:      "未找到驱动，请确认 HidHide 已安装且状态正常",
	KindHandleInvalid:       "驱动句柄无效，请确认驱动安装正确且正在运行",
	KindPlatform:            "Win32 调用失败",
	KindRequestFailed:       "驱动请求失败",
	KindBufferOverflow:      "列表缓冲区超出协议允许的最大长度",
	KindDetectionFailed:     "设备接口查询失败",
	KindMultipleDeviceNodes: "发现多个驱动设备节点，请卸载后重新安装驱动",
	KindPathNotFound:        "文件不存在",
	KindPrefixUnresolved:    "无法解析设备路径的卷前缀",
	KindMappingUnresolved:   "无法找到路径所在卷的设备路径映射",
}

// String 返回稳定的类别标识，用于日志与 RPC 响应。
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind 是 String 的逆操作，未知名称返回 KindUnknown。
func ParseKind(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindUnknown
}

// category 把类别映射到 containerd/errdefs 的通用分类。
func (k Kind) category() error {
	switch k {
	case KindAccessDenied:
		return errdefs.ErrPermissionDenied
	case KindDriverNotFound, KindPathNotFound:
		return errdefs.ErrNotFound
	case KindHandleInvalid, KindDetectionFailed:
		return errdefs.ErrUnavailable
	case KindRequestFailed:
		return errdefs.ErrAborted
	case KindBufferOverflow:
		return errdefs.ErrOutOfRange
	case KindMultipleDeviceNodes:
		return errdefs.ErrConflict
	case KindPrefixUnresolved:
		return errdefs.ErrInvalidArgument
	case KindMappingUnresolved:
		return errdefs.ErrFailedPrecondition
	default:
		return errdefs.ErrUnknown
	}
}

// Error 携带结构化字段的错误，不依赖格式化后的消息文本。
type Error struct {
	Kind Kind
	// Op 发生错误的操作，如 "get-whitelist"
	Op string
	// Path 与错误相关的设备或文件路径，可为空
	Path string
	// Code 原始 Win32 错误码，0 表示无
	Code uint32
	// Result CONFIGRET 返回值，仅 KindDetectionFailed 使用
	Result uint32
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(kindMessages[e.Kind])
	if e.Path != "" {
		fmt.Fprintf(&b, " [%s]", e.Path)
	}
	if e.Kind == KindDetectionFailed {
		fmt.Fprintf(&b, " [CONFIGRET 0x%X]", e.Result)
	}
	if e.Code != 0 {
		fmt.Fprintf(&b, " [LE 0x%X]", e.Code)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同类别的 *Error 视为相等，同时匹配对应的 errdefs 分类。
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind
	}
	return errors.Is(e.Kind.category(), target)
}

// 哨兵错误，仅用于 errors.Is 比较。
var (
	ErrAccessDenied        = &Error{Kind: KindAccessDenied}
	ErrDriverNotFound      = &Error{Kind: KindDriverNotFound}
	ErrHandleInvalid       = &Error{Kind: KindHandleInvalid}
	ErrPlatform            = &Error{Kind: KindPlatform}
	ErrRequestFailed       = &Error{Kind: KindRequestFailed}
	ErrBufferOverflow      = &Error{Kind: KindBufferOverflow}
	ErrDetectionFailed     = &Error{Kind: KindDetectionFailed}
	ErrMultipleDeviceNodes = &Error{Kind: KindMultipleDeviceNodes}
	ErrPathNotFound        = &Error{Kind: KindPathNotFound}
	ErrPrefixUnresolved    = &Error{Kind: KindPrefixUnresolved}
	ErrMappingUnresolved   = &Error{Kind: KindMappingUnresolved}
)

// New 创建指定类别的错误。
func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

// KindOf 返回错误链中第一个 *Error 的类别。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
