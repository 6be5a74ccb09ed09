/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// statsCmd is a placeholder, kept for parity with the original CLI's
// Commands enum. Per-language template counting is not yet
// implemented.
var statsCmd = &cobra.Command{
	Use:   "stats [path]",
	Short: "Report template counts per resolved language (not yet implemented)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.Info.Println("tsh stats: not yet implemented")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
