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
	"fmt"
	"os"
	"slices"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go.tsh.dev/tsh/internal/config"
	"go.tsh.dev/tsh/queries"
	"go.tsh.dev/tsh/server"
)

// lspCmd represents the lsp command
var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Launch the semantic-tokens LSP server",
	Long: `Launch a Language Server Protocol (LSP) server that reports
textDocument/semanticTokens/full for embedded languages found inside
PEP 750 template strings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// CRITICAL: Redirect all pterm output to stderr immediately to prevent LSP stdout contamination
		pterm.SetDefaultOutput(os.Stderr)

		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			if cfg, cfgErr := config.Load(cwd); cfgErr == nil {
				warnUnknownPreloadLanguages(cfg.PreloadLanguages)
			}
		}

		transport := server.TransportStdio

		stdioFlag, _ := cmd.Flags().GetBool("stdio")
		tcpFlag, _ := cmd.Flags().GetBool("tcp")
		websocketFlag, _ := cmd.Flags().GetBool("websocket")
		nodejsFlag, _ := cmd.Flags().GetBool("nodejs")

		flagCount := 0
		if stdioFlag {
			transport = server.TransportStdio
			flagCount++
		}
		if tcpFlag {
			transport = server.TransportTCP
			flagCount++
		}
		if websocketFlag {
			transport = server.TransportWebSocket
			flagCount++
		}
		if nodejsFlag {
			transport = server.TransportNodeJS
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("only one transport flag may be specified")
		}

		s, err := server.NewServer(transport)
		if err != nil {
			return err
		}
		defer s.Close()
		return s.Run()
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
	lspCmd.Flags().Bool("stdio", false, "Use stdio transport (default)")
	lspCmd.Flags().Bool("tcp", false, "Use TCP transport")
	lspCmd.Flags().Bool("websocket", false, "Use WebSocket transport")
	lspCmd.Flags().Bool("nodejs", false, "Use Node.js transport")
}

// warnUnknownPreloadLanguages flags any .tsh.yaml preloadLanguages entry
// that names no registered embedded grammar. Every grammar is always
// loaded regardless (the registry has no lazy-loading path to restrict),
// so this is purely a config-sanity check against a typo'd language tag.
func warnUnknownPreloadLanguages(configured []string) {
	known := queries.KnownLanguageTags()
	for _, tag := range configured {
		if !slices.Contains(known, tag) {
			pterm.Warning.Printf("preloadLanguages: %q is not a registered embedded language\n", tag)
		}
	}
}
