package volume

import "strings"

// 这里的路径处理只做字符串运算并固定使用 Windows 语义，不依赖 path/filepath，
// 因而在任何平台上行为一致。

const sep = `\`

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// cleanPath 统一分隔符，去掉重复分隔符、"." 和 ".."，去掉 \\?\ 前缀。
// 根目录保留结尾分隔符（C:\），其余路径不带结尾分隔符。
func cleanPath(p string) string {
	p = strings.ReplaceAll(p, "/", sep)
	if strings.HasPrefix(p, `\\?\`) && len(p) >= 6 && p[5] == ':' && isLetter(p[4]) {
		p = p[4:]
	}

	prefix := ""
	switch {
	case strings.HasPrefix(p, `\\`):
		prefix, p = `\\`, p[2:]
	case len(p) >= 2 && p[1] == ':' && isLetter(p[0]):
		prefix, p = p[:2]+sep, p[2:]
	case strings.HasPrefix(p, sep):
		prefix = sep
	}

	var parts []string
	for _, seg := range strings.Split(p, sep) {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
			continue
		}
		parts = append(parts, seg)
	}
	return prefix + strings.Join(parts, sep)
}

// volumeRoot 返回路径的卷根目录：C:\ 或 \\server\share\，无法识别时返回空串。
func volumeRoot(p string) string {
	if len(p) >= 2 && p[1] == ':' && isLetter(p[0]) {
		return p[:2] + sep
	}
	if strings.HasPrefix(p, `\\`) {
		parts := strings.SplitN(p[2:], sep, 3)
		if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
			return `\\` + parts[0] + sep + parts[1] + sep
		}
	}
	return ""
}

// parentDir 返回上一级目录，已到卷根时 ok 为 false。
func parentDir(dir string) (string, bool) {
	root := volumeRoot(dir)
	if root == "" || len(strings.TrimRight(dir, sep)) <= len(strings.TrimRight(root, sep)) {
		return "", false
	}
	i := strings.LastIndex(strings.TrimRight(dir, sep), sep)
	if i < len(root) {
		return root, true
	}
	return dir[:i], true
}

// splitPath 把路径拆成目录和文件名两部分。
func splitPath(p string) (dir, file string) {
	i := strings.LastIndex(p, sep)
	if i < 0 {
		return "", p
	}
	dir, file = p[:i], p[i+1:]
	if root := volumeRoot(p); root != "" && len(dir) < len(root) {
		dir = root
	}
	return dir, file
}

// relativeTo 返回 p 相对祖先目录 base 的剩余部分，不带首尾分隔符。
func relativeTo(p, base string) string {
	if len(base) > len(p) {
		return ""
	}
	return strings.Trim(p[len(base):], sep)
}

// samePath 规范化后忽略大小写比较两个路径。
func samePath(a, b string) bool {
	return strings.EqualFold(strings.TrimRight(cleanPath(a), sep), strings.TrimRight(cleanPath(b), sep))
}

// joinPath 用单个分隔符连接各段，忽略空段。
func joinPath(first string, rest ...string) string {
	out := strings.TrimRight(first, sep)
	for _, s := range rest {
		s = strings.Trim(s, sep)
		if s == "" {
			continue
		}
		out += sep + s
	}
	if out == strings.TrimRight(first, sep) && strings.HasSuffix(first, sep) {
		return first
	}
	return out
}
