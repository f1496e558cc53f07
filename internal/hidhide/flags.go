package hidhide

import (
	"github.com/OpenSysKit/hidhide/internal/driver"
)

func (s *Service) getFlag(code uint32) (bool, error) {
	var value bool
	err := s.withDevice(func(dev driver.Device) error {
		out := make([]byte, 1)
		if _, err := dev.IoControl(code, nil, out); err != nil {
			return driver.RequestError(code, err)
		}
		value = out[0] > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	s.log.Debug("读取开关", "ioctl", driver.IoctlName(code), "value", value)
	return value, nil
}

func (s *Service) setFlag(code uint32, value bool) error {
	in := []byte{0}
	if value {
		in[0] = 1
	}
	s.log.Debug("写入开关", "ioctl", driver.IoctlName(code), "value", value)
	return s.withDevice(func(dev driver.Device) error {
		if _, err := dev.IoControl(code, in, nil); err != nil {
			return driver.RequestError(code, err)
		}
		return nil
	})
}

// IsActive 设备隐藏是否启用。
func (s *Service) IsActive() (bool, error) {
	return s.getFlag(driver.IOCTL_GET_ACTIVE)
}

// SetActive 启用或停用设备隐藏。
func (s *Service) SetActive(active bool) error {
	return s.setFlag(driver.IOCTL_SET_ACTIVE, active)
}

// IsAppListInverted 应用列表是否被反转为黑名单语义。
func (s *Service) IsAppListInverted() (bool, error) {
	return s.getFlag(driver.IOCTL_GET_WL_INVERSE)
}

// SetAppListInverted 设置应用列表的反转开关。
func (s *Service) SetAppListInverted(inverted bool) error {
	return s.setFlag(driver.IOCTL_SET_WL_INVERSE, inverted)
}
