// shopchat is a storefront chat assistant rendered as a terminal widget.
package main

import (
	"fmt"
	"os"

	"github.com/linanwx/shopchat/cmd"
	"github.com/linanwx/shopchat/config"
	"github.com/linanwx/shopchat/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	baseDir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), baseDir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	cmd.Execute()
}
