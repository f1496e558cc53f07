package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

// memController 在内存中实现 Controller。
type memController struct {
	installed, active, inverted bool
	blocked                     []string
	apps                        map[string]string // 用户路径 -> 设备路径
	order                       []string
	err                         error
}

func newMemController() *memController {
	return &memController{installed: true, apps: map[string]string{}}
}

func (m *memController) IsActive() (bool, error)          { return m.active, m.err }
func (m *memController) SetActive(v bool) error           { m.active = v; return m.err }
func (m *memController) IsAppListInverted() (bool, error) { return m.inverted, m.err }
func (m *memController) SetAppListInverted(v bool) error  { m.inverted = v; return m.err }
func (m *memController) IsInstalled() (bool, error)       { return m.installed, nil }
func (m *memController) IsOperational() (bool, error)     { return m.installed, nil }

func (m *memController) BlockedInstanceIDs() ([]string, error) { return m.blocked, m.err }

func (m *memController) AddBlockedInstanceIDs(ids ...string) error {
	if m.err != nil {
		return m.err
	}
	m.blocked = append(m.blocked, ids...)
	return nil
}

func (m *memController) RemoveBlockedInstanceID(id string) error {
	kept := m.blocked[:0]
	for _, v := range m.blocked {
		if !strings.EqualFold(v, id) {
			kept = append(kept, v)
		}
	}
	m.blocked = kept
	return m.err
}

func (m *memController) ClearBlockedInstances() error { m.blocked = nil; return m.err }

func (m *memController) ApplicationPaths() ([]string, error) { return m.order, m.err }

func (m *memController) ApplicationDevicePaths() ([]string, error) {
	var out []string
	for _, p := range m.order {
		out = append(out, m.apps[p])
	}
	return out, m.err
}

func (m *memController) AddApplicationPaths(paths ...string) error {
	for _, p := range paths {
		if !strings.HasPrefix(p, `C:\`) {
			return &hherr.Error{Kind: hherr.KindPathNotFound, Op: "path-to-device-path", Path: p}
		}
	}
	for _, p := range paths {
		m.apps[p] = `\Device\HarddiskVolume3` + p[2:]
		m.order = append(m.order, p)
	}
	return nil
}

func (m *memController) RemoveApplicationPath(path string) error {
	delete(m.apps, path)
	kept := m.order[:0]
	for _, p := range m.order {
		if p != path {
			kept = append(kept, p)
		}
	}
	m.order = kept
	return nil
}

func (m *memController) ClearApplicationPaths() error {
	m.apps, m.order = map[string]string{}, nil
	return nil
}

func TestPing(t *testing.T) {
	t.Parallel()

	svc := &HidHideService{Ctl: newMemController()}
	var reply PingReply
	require.NoError(t, svc.Ping(&PingArgs{}, &reply))
	assert.Equal(t, "ok", reply.Status)
}

func TestGetState(t *testing.T) {
	t.Parallel()

	ctl := newMemController()
	ctl.active = true
	svc := &HidHideService{Ctl: ctl}

	var reply GetStateReply
	require.NoError(t, svc.GetState(&GetStateArgs{}, &reply))
	assert.Equal(t, GetStateReply{Installed: true, Operational: true, Active: true}, reply)

	ctl.installed = false
	reply = GetStateReply{}
	require.NoError(t, svc.GetState(&GetStateArgs{}, &reply))
	assert.False(t, reply.Installed)
	assert.False(t, reply.Active)
	assert.Empty(t, reply.Error)
}

func TestErrorKindInReply(t *testing.T) {
	t.Parallel()

	ctl := newMemController()
	ctl.err = &hherr.Error{Kind: hherr.KindAccessDenied, Op: "open", Code: 32}
	svc := &HidHideService{Ctl: ctl}

	var flag SetFlagReply
	require.NoError(t, svc.SetActive(&SetFlagArgs{Enabled: true}, &flag))
	assert.Equal(t, "access-denied", flag.ErrorKind)
	assert.NotEmpty(t, flag.Error)

	var state GetStateReply
	require.NoError(t, svc.GetState(&GetStateArgs{}, &state))
	assert.Equal(t, "access-denied", state.ErrorKind)
}

func TestBlockedRoundTrip(t *testing.T) {
	t.Parallel()

	svc := &HidHideService{Ctl: newMemController()}

	var mut MutateReply
	require.NoError(t, svc.AddBlocked(&EntriesArgs{Entries: []string{"HID\\A", "HID\\B"}}, &mut))
	require.NoError(t, svc.RemoveBlocked(&EntryArgs{Entry: "hid\\a"}, &mut))
	assert.Empty(t, mut.Error)

	var list ListReply
	require.NoError(t, svc.ListBlocked(&ListArgs{}, &list))
	assert.Equal(t, []string{"HID\\B"}, list.Items)

	require.NoError(t, svc.ClearBlocked(&ClearArgs{}, &mut))
	list = ListReply{}
	require.NoError(t, svc.ListBlocked(&ListArgs{}, &list))
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
}

func TestApplications(t *testing.T) {
	t.Parallel()

	svc := &HidHideService{Ctl: newMemController()}

	var mut MutateReply
	require.NoError(t, svc.AddApplication(&EntriesArgs{Entries: []string{`C:\Games\app.exe`}}, &mut))
	assert.Empty(t, mut.ErrorKind)

	var list ListReply
	require.NoError(t, svc.ListApplications(&ListArgs{}, &list))
	assert.Equal(t, []string{`C:\Games\app.exe`}, list.Items)

	list = ListReply{}
	require.NoError(t, svc.ListApplications(&ListArgs{Raw: true}, &list))
	assert.Equal(t, []string{`\Device\HarddiskVolume3\Games\app.exe`}, list.Items)

	require.NoError(t, svc.AddApplication(&EntriesArgs{Entries: []string{`Z:\nope.exe`}}, &mut))
	assert.Equal(t, "path-not-found", mut.ErrorKind)

	mut = MutateReply{}
	require.NoError(t, svc.RemoveApplication(&EntryArgs{Entry: `C:\Games\app.exe`}, &mut))
	require.NoError(t, svc.ClearApplications(&ClearArgs{}, &mut))
	list = ListReply{}
	require.NoError(t, svc.ListApplications(&ListArgs{}, &list))
	assert.Empty(t, list.Items)
}
