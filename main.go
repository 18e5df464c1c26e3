// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/nchess/cbuild/cmd/cbuild"

func main() {
	cmd.Execute()
}
