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
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go.tsh.dev/tsh/core/check"
	"go.tsh.dev/tsh/internal/config"
	"go.tsh.dev/tsh/internal/logging"
	"go.tsh.dev/tsh/internal/platform"
	"go.tsh.dev/tsh/queries"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <paths...>",
	Short: "Lint template strings for unresolved or unparsable embedded languages",
	Long: `Walks the given paths (or globs) for Python source files, runs the
extraction and highlighting pipeline over every template string found,
and reports templates whose embedded language could not be resolved or
parsed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("format", "human", "Report format: human|json|junit|github")
	checkCmd.Flags().Bool("watch", false, "Re-run the check after every save to a matched file")
}

type checkFinding struct {
	File     string `json:"file"`
	Line     uint32 `json:"line"`
	Column   uint32 `json:"column"`
	Language string `json:"language"`
	Message  string `json:"message"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.EnableTypeChecking {
		logging.Info("enableTypeChecking is set but has no effect: checking interpolated expression types is out of scope")
	}

	format, _ := cmd.Flags().GetString("format")
	if !cmd.Flags().Changed("format") && cfg.CheckFormat != "" {
		format = cfg.CheckFormat
	}
	watch, _ := cmd.Flags().GetBool("watch")

	manager, err := queries.NewQueryManager(queries.DefaultQueries())
	if err != nil {
		return fmt.Errorf("failed to construct query manager: %w", err)
	}
	defer manager.Close()

	findings, templateCount, fileCount, err := runCheckPass(manager, args, format)
	if err != nil {
		return err
	}

	if !watch {
		if len(findings) > 0 {
			os.Exit(1)
		}
		return nil
	}

	return watchCheckPaths(manager, args, format, findings, templateCount, fileCount)
}

// runCheckPass expands the given patterns and runs one check over every
// matched file, printing the report in the requested format.
func runCheckPass(manager *queries.QueryManager, patterns []string, format string) ([]checkFinding, int, int, error) {
	files, err := expandCheckPaths(patterns)
	if err != nil {
		return nil, 0, 0, err
	}

	fsys := platform.NewOSFileSystem()
	var findings []checkFinding
	templateCount := 0
	for _, file := range files {
		source, err := fsys.ReadFile(file)
		if err != nil {
			pterm.Warning.Printf("skipping %s: %v\n", file, err)
			continue
		}

		fileFindings, count, err := check.File(manager, source)
		if err != nil {
			pterm.Warning.Printf("skipping %s: %v\n", file, err)
			continue
		}
		templateCount += count

		for _, f := range fileFindings {
			findings = append(findings, checkFinding{
				File:     file,
				Line:     f.Location.StartLine,
				Column:   f.Location.StartColumn,
				Language: f.Language,
				Message:  f.Err.Error(),
			})
		}
	}

	switch format {
	case "json":
		reportJSON(findings)
	case "junit":
		reportJUnit(findings)
	case "github":
		reportGitHub(findings)
	default:
		reportHuman(findings, templateCount, len(files))
	}

	return findings, templateCount, len(files), nil
}

// watchCheckPaths keeps the process alive, re-running a check pass every
// time a matched file is written. It degrades to the already-printed
// initial report if the host filesystem cannot be watched at all.
func watchCheckPaths(manager *queries.QueryManager, patterns []string, format string, initial []checkFinding, templateCount, fileCount int) error {
	watcher, err := platform.NewFSNotifyFileWatcher()
	if err != nil {
		pterm.Warning.Printf("watch mode unavailable: %v\n", err)
		return nil
	}
	defer watcher.Close()

	files, err := expandCheckPaths(patterns)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := watcher.Add(file); err != nil {
			pterm.Warning.Printf("could not watch %s: %v\n", file, err)
		}
	}

	pterm.Info.Println("watching for changes, press Ctrl+C to stop")
	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if event.Op&(platform.Write|platform.Create) == 0 {
				continue
			}
			pterm.Info.Printf("%s changed, re-checking\n", event.Name)
			if _, _, _, err := runCheckPass(manager, patterns, format); err != nil {
				pterm.Error.Printf("check failed: %v\n", err)
			}
		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			pterm.Warning.Printf("watch error: %v\n", err)
		}
	}
}

func expandCheckPaths(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob pattern %q failed: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	return files, nil
}

func reportHuman(findings []checkFinding, templateCount, fileCount int) {
	pterm.Info.Printf("scanned %d file(s), %d template(s) found\n", fileCount, templateCount)
	for _, f := range findings {
		pterm.Warning.Printf("%s:%d:%d: %s (%s)\n", f.File, f.Line, f.Column, f.Message, f.Language)
	}
	if len(findings) == 0 {
		pterm.Success.Println("no unresolved templates")
	}
}

func reportJSON(findings []checkFinding) {
	out, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		pterm.Error.Printf("error marshaling findings: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

type junitTestsuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	TestCases []junitTestcase `xml:"testcase"`
}

type junitTestcase struct {
	Name    string        `xml:"name,attr"`
	Failure *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

func reportJUnit(findings []checkFinding) {
	suite := junitTestsuite{
		Name:     "tsh check",
		Tests:    len(findings),
		Failures: len(findings),
	}
	for _, f := range findings {
		suite.TestCases = append(suite.TestCases, junitTestcase{
			Name: fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column),
			Failure: &junitFailure{
				Message: f.Message,
				Text:    fmt.Sprintf("language=%s", f.Language),
			},
		})
	}
	out, err := xml.MarshalIndent(suite, "", "  ")
	if err != nil {
		pterm.Error.Printf("error marshaling findings: %v\n", err)
		return
	}
	fmt.Println(xml.Header + string(out))
}

func reportGitHub(findings []checkFinding) {
	for _, f := range findings {
		fmt.Printf("::warning file=%s,line=%d,col=%d::%s (%s)\n", f.File, f.Line, f.Column, f.Message, f.Language)
	}
}
