package security

import (
	"path"
	"strings"
)

// EnvAllowedImages 管道客户端可执行文件名白名单，分号分隔，为空时不限制。
const EnvAllowedImages = "HIDHIDE_PIPE_ALLOWED_IMAGES"

// ImageAllowList 小写的可执行文件名集合。
type ImageAllowList map[string]struct{}

// ParseAllowedImages 解析分号分隔的文件名列表，忽略空白项。
func ParseAllowedImages(raw string) ImageAllowList {
	allowed := make(ImageAllowList)
	for _, part := range strings.Split(raw, ";") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name != "" {
			allowed[name] = struct{}{}
		}
	}
	return allowed
}

// Contains 按文件名（忽略目录与大小写）判断 imagePath 是否在白名单中。
func (l ImageAllowList) Contains(imagePath string) bool {
	base := path.Base(strings.ReplaceAll(imagePath, `\`, "/"))
	_, ok := l[strings.ToLower(base)]
	return ok
}
