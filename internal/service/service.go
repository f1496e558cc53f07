package service

import (
	"log/slog"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

// Controller 是 RPC 层依赖的驱动控制接口，*hidhide.Service 实现了它。
type Controller interface {
	IsActive() (bool, error)
	SetActive(active bool) error
	IsAppListInverted() (bool, error)
	SetAppListInverted(inverted bool) error
	IsInstalled() (bool, error)
	IsOperational() (bool, error)

	BlockedInstanceIDs() ([]string, error)
	AddBlockedInstanceIDs(ids ...string) error
	RemoveBlockedInstanceID(id string) error
	ClearBlockedInstances() error

	ApplicationPaths() ([]string, error)
	ApplicationDevicePaths() ([]string, error)
	AddApplicationPaths(paths ...string) error
	RemoveApplicationPath(path string) error
	ClearApplicationPaths() error
}

// HidHideService 暴露给前端的 JSON-RPC 服务。
// 驱动或路径错误不作为 RPC 错误返回，而是写入 Reply 的 error 与 error_kind 字段，
// 以便管道另一端区分错误类别。
type HidHideService struct {
	Ctl    Controller
	Logger *slog.Logger
}

// Status 每个 Reply 都携带的错误信息，成功时为空。
type Status struct {
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

func (t *HidHideService) status(method string, err error) Status {
	if err == nil {
		return Status{}
	}
	kind := hherr.KindOf(err)
	if t.Logger != nil {
		t.Logger.Warn("请求失败", "method", method, "kind", kind.String(), "error", err)
	}
	return Status{Error: err.Error(), ErrorKind: kind.String()}
}

// PingArgs 连通性测试请求参数。
type PingArgs struct{}

// PingReply 连通性测试响应。
type PingReply struct {
	Status string `json:"status"`
}

// Ping 连通性测试，前端可用于检测后端服务是否存活。
func (t *HidHideService) Ping(_ *PingArgs, reply *PingReply) error {
	reply.Status = "ok"
	return nil
}

// GetStateArgs 查询状态请求参数
type GetStateArgs struct{}

// GetStateReply 驱动状态
type GetStateReply struct {
	Status
	Installed   bool `json:"installed"`
	Operational bool `json:"operational"`
	Active      bool `json:"active"`
	Inverted    bool `json:"inverted"`
}

// GetState 返回驱动安装状态与两个开关。驱动未安装时不再读取开关。
func (t *HidHideService) GetState(_ *GetStateArgs, reply *GetStateReply) error {
	var err error
	defer func() { reply.Status = t.status("GetState", err) }()

	if reply.Installed, err = t.Ctl.IsInstalled(); err != nil || !reply.Installed {
		return nil
	}
	if reply.Operational, err = t.Ctl.IsOperational(); err != nil {
		return nil
	}
	if reply.Active, err = t.Ctl.IsActive(); err != nil {
		return nil
	}
	reply.Inverted, err = t.Ctl.IsAppListInverted()
	return nil
}

// SetFlagArgs 开关设置请求参数
type SetFlagArgs struct {
	Enabled bool `json:"enabled"`
}

// SetFlagReply 开关设置响应
type SetFlagReply struct {
	Status
}

// SetActive 启用或停用设备隐藏
func (t *HidHideService) SetActive(args *SetFlagArgs, reply *SetFlagReply) error {
	reply.Status = t.status("SetActive", t.Ctl.SetActive(args.Enabled))
	return nil
}

// SetInverted 设置应用列表反转
func (t *HidHideService) SetInverted(args *SetFlagArgs, reply *SetFlagReply) error {
	reply.Status = t.status("SetInverted", t.Ctl.SetAppListInverted(args.Enabled))
	return nil
}

// ListArgs 列表查询请求参数
type ListArgs struct {
	// Raw 为 true 时应用列表返回驱动中的设备路径
	Raw bool `json:"raw"`
}

// ListReply 列表查询响应
type ListReply struct {
	Status
	Items []string `json:"items"`
}

// EntriesArgs 列表修改请求参数
type EntriesArgs struct {
	Entries []string `json:"entries"`
}

// EntryArgs 单条目请求参数
type EntryArgs struct {
	Entry string `json:"entry"`
}

// MutateReply 列表修改响应
type MutateReply struct {
	Status
}

// ClearArgs 清空列表请求参数
type ClearArgs struct{}

// ListBlocked 列出被隐藏的设备实例
func (t *HidHideService) ListBlocked(_ *ListArgs, reply *ListReply) error {
	items, err := t.Ctl.BlockedInstanceIDs()
	reply.Items = nonNil(items)
	reply.Status = t.status("ListBlocked", err)
	return nil
}

// AddBlocked 隐藏设备实例
func (t *HidHideService) AddBlocked(args *EntriesArgs, reply *MutateReply) error {
	reply.Status = t.status("AddBlocked", t.Ctl.AddBlockedInstanceIDs(args.Entries...))
	return nil
}

// RemoveBlocked 取消隐藏设备实例
func (t *HidHideService) RemoveBlocked(args *EntryArgs, reply *MutateReply) error {
	reply.Status = t.status("RemoveBlocked", t.Ctl.RemoveBlockedInstanceID(args.Entry))
	return nil
}

// ClearBlocked 清空设备列表
func (t *HidHideService) ClearBlocked(_ *ClearArgs, reply *MutateReply) error {
	reply.Status = t.status("ClearBlocked", t.Ctl.ClearBlockedInstances())
	return nil
}

// ListApplications 列出应用
func (t *HidHideService) ListApplications(args *ListArgs, reply *ListReply) error {
	var (
		items []string
		err   error
	)
	if args.Raw {
		items, err = t.Ctl.ApplicationDevicePaths()
	} else {
		items, err = t.Ctl.ApplicationPaths()
	}
	reply.Items = nonNil(items)
	reply.Status = t.status("ListApplications", err)
	return nil
}

// AddApplication 添加应用
func (t *HidHideService) AddApplication(args *EntriesArgs, reply *MutateReply) error {
	reply.Status = t.status("AddApplication", t.Ctl.AddApplicationPaths(args.Entries...))
	return nil
}

// RemoveApplication 移除应用
func (t *HidHideService) RemoveApplication(args *EntryArgs, reply *MutateReply) error {
	reply.Status = t.status("RemoveApplication", t.Ctl.RemoveApplicationPath(args.Entry))
	return nil
}

// ClearApplications 清空应用列表
func (t *HidHideService) ClearApplications(_ *ClearArgs, reply *MutateReply) error {
	reply.Status = t.status("ClearApplications", t.Ctl.ClearApplicationPaths())
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
