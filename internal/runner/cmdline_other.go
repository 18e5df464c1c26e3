// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runner

import "os/exec"

func applyRawCmdLine(*exec.Cmd, string) {}
