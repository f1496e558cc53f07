package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`C:/Windows//System32/./rundll32.exe`: `C:\Windows\System32\rundll32.exe`,
		`C:\a\..\b`:                           `C:\b`,
		`\\?\C:\Games\app.exe`:                `C:\Games\app.exe`,
		`C:\`:                                 `C:\`,
		`C:`:                                  `C:\`,
		`C:\dir\`:                             `C:\dir`,
		`\\server\share\dir\`:                 `\\server\share\dir`,
		`relative\file.txt`:                   `relative\file.txt`,
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanPath(in), in)
	}
}

func TestVolumeRoot(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `C:\`, volumeRoot(`C:\Windows`))
	assert.Equal(t, `d:\`, volumeRoot(`d:\`))
	assert.Equal(t, `\\srv\share\`, volumeRoot(`\\srv\share\dir\file`))
	assert.Equal(t, "", volumeRoot(`\\srv`))
	assert.Equal(t, "", volumeRoot(`relative\dir`))
}

func TestParentDirWalksToRoot(t *testing.T) {
	t.Parallel()

	var chain []string
	for cur, ok := `C:\a\b\c`, true; ok; cur, ok = parentDir(cur) {
		chain = append(chain, cur)
	}
	assert.Equal(t, []string{`C:\a\b\c`, `C:\a\b`, `C:\a`, `C:\`}, chain)

	p, ok := parentDir(`\\srv\share\a`)
	assert.True(t, ok)
	assert.Equal(t, `\\srv\share\`, p)

	_, ok = parentDir(`\\srv\share\`)
	assert.False(t, ok)
	_, ok = parentDir(`relative`)
	assert.False(t, ok)
}

func TestSplitPath(t *testing.T) {
	t.Parallel()

	dir, file := splitPath(`C:\Windows\System32\rundll32.exe`)
	assert.Equal(t, `C:\Windows\System32`, dir)
	assert.Equal(t, "rundll32.exe", file)

	dir, file = splitPath(`C:\boot.ini`)
	assert.Equal(t, `C:\`, dir)
	assert.Equal(t, "boot.ini", file)

	dir, file = splitPath("app.exe")
	assert.Equal(t, "", dir)
	assert.Equal(t, "app.exe", file)
}

func TestJoinPathNoDoubledSeparators(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `C:\Windows\System32\x.exe`, joinPath(`C:\`, `Windows\System32\x.exe`))
	assert.Equal(t, `\Device\HarddiskVolume3\x.exe`, joinPath(`\Device\HarddiskVolume3`, "", "x.exe"))
	assert.Equal(t, `\Device\HarddiskVolume3\a\x.exe`, joinPath(`\Device\HarddiskVolume3\`, `\a\`, "x.exe"))
	assert.Equal(t, `C:\mnt\data\`, joinPath(`C:\mnt\data\`, ""))
}

func TestSamePath(t *testing.T) {
	t.Parallel()

	assert.True(t, samePath(`C:\`, `c:`))
	assert.True(t, samePath(`C:\mnt\data\`, `c:/MNT/data`))
	assert.False(t, samePath(`C:\mnt\data`, `C:\mnt`))
}

func TestMappingIsDriveLetter(t *testing.T) {
	t.Parallel()

	assert.True(t, Mapping{MountPoint: `C:\`}.IsDriveLetter())
	assert.True(t, Mapping{MountPoint: `e:`}.IsDriveLetter())
	assert.False(t, Mapping{MountPoint: `C:\mnt\data\`}.IsDriveLetter())
	assert.False(t, Mapping{}.IsDriveLetter())
}
