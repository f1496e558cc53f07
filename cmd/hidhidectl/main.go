package main

import (
	"fmt"
	"os"

	"github.com/OpenSysKit/hidhide/internal/hherr"
)

// 由 -ldflags 在编译时注入
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd := newRootCmd(newApp(os.Stdout))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误 [%s]: %v\n", hherr.KindOf(err), err)
		os.Exit(1)
	}
}
