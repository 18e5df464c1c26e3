// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runner

import (
	"os/exec"
	"syscall"
)

func applyRawCmdLine(cmd *exec.Cmd, raw string) {
	if raw == "" {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CmdLine = raw
}
