// ./cmd/vsop87/main.go
package main

/*
Command vsop87 evaluates the VSOP87 planetary theory from the command line.

This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"fmt"
	"os"

	"github.com/mshafiee/vsop87/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	if !cli.Reported(err) {
		fmt.Fprintf(os.Stderr, "vsop87: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
