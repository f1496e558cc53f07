// Package multisz 实现 REG_MULTI_SZ 风格的字符串列表编解码：
// 每个字符串以 UTF-16LE 编码并以 NUL 结尾，整个列表再以一个额外的 NUL 结束。
// HidHide 驱动的列表类 IOCTL 使用这种格式收发数据。
package multisz

import (
	"encoding/binary"
	"unicode/utf16"
)

// Encode 把字符串列表编码为驱动期望的字节缓冲区。
// 空列表编码为两个零字节（一个 UTF-16 NUL），不会返回长度为 0 的缓冲区。
// 空串在格式中表示列表结束，因此编码时被跳过，不会截断其后的元素。
func Encode(list []string) []byte {
	units := EncodeUTF16(list)
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return buf
}

// EncodeUTF16 与 Encode 相同，但输出 UTF-16 码元。
func EncodeUTF16(list []string) []uint16 {
	var out []uint16
	for _, s := range list {
		if s == "" {
			continue
		}
		out = append(out, utf16.Encode([]rune(s))...)
		out = append(out, 0)
	}
	return append(out, 0)
}

// Decode 从字节缓冲区解析字符串列表。
// 遇到空串（连续两个 NUL）或缓冲区结尾即停止，结尾多余的奇数字节被忽略。
func Decode(buf []byte) []string {
	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(buf[i*2:])
	}
	return DecodeUTF16(units)
}

// DecodeUTF16 与 Decode 相同，但输入为 UTF-16 码元。
// 缺少结尾 NUL 的最后一段仍按一个字符串返回。
func DecodeUTF16(units []uint16) []string {
	var out []string
	start := 0
	for i, u := range units {
		if u != 0 {
			continue
		}
		if i == start {
			return out
		}
		out = append(out, string(utf16.Decode(units[start:i])))
		start = i + 1
	}
	if start < len(units) {
		out = append(out, string(utf16.Decode(units[start:])))
	}
	return out
}
