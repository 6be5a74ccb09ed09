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

package check_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.tsh.dev/tsh/core/check"
	"go.tsh.dev/tsh/queries"
)

func TestFileReportsNoFindingsForResolvedTemplates(t *testing.T) {
	manager, err := queries.NewQueryManager(queries.DefaultQueries())
	require.NoError(t, err)
	defer manager.Close()

	source := []byte(`
from typing import Annotated
from string.templatelib import Template

page: Annotated[Template, "html"] = t"<p>{name}</p>"
`)

	findings, count, err := check.File(manager, source)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Empty(t, findings)
}

func TestFileReportsUnresolvedLanguageFindings(t *testing.T) {
	manager, err := queries.NewQueryManager(queries.DefaultQueries())
	require.NoError(t, err)
	defer manager.Close()

	source := []byte(`
from typing import Annotated
from string.templatelib import Template

page: Annotated[Template, "cobol"] = t"DISPLAY {name}"
`)

	findings, count, err := check.File(manager, source)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, findings, 1)
	require.Equal(t, "cobol", findings[0].Language)
	require.True(t, check.IsRecoverable(findings[0].Err))
}
