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

package core

import "errors"

// Sentinel errors for the taxonomy every caller wraps with
// fmt.Errorf("...: %w", err) and tests against with errors.Is/As.
var (
	// ErrHostParse means the document failed to parse under the host
	// grammar at all. The caller returns an empty token set; the
	// session continues.
	ErrHostParse = errors.New("host parse error")

	// ErrExtract means a specific template literal is malformed. The
	// template is skipped; other templates in the document proceed.
	ErrExtract = errors.New("template extract error")

	// ErrUnsupportedLanguage means the resolved language tag has no
	// registered embedded grammar.
	ErrUnsupportedLanguage = errors.New("unsupported embedded language")

	// ErrEmbeddedParse means the embedded grammar failed to parse the
	// stripped content.
	ErrEmbeddedParse = errors.New("embedded parse error")

	// ErrQuery means an embedded grammar's highlight query failed to
	// run.
	ErrQuery = errors.New("highlight query error")

	// ErrPositionProjection means the stripped-content/raw-content
	// two-pointer walk ran off the end of the raw content before
	// reconciling every span.
	ErrPositionProjection = errors.New("position projection error")
)

// TemplateError wraps one of the sentinels above with the template's
// location in its document, for logging.
type TemplateError struct {
	Err      error
	Location Location
}

func (e *TemplateError) Error() string {
	return e.Err.Error()
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
