package model

import (
	"strings"

	"github.com/secmon-lab/gradeview/pkg/domain/types"
)

const (
	columnSubject  = types.ColumnSubject
	columnCatalog  = types.ColumnCatalog
	columnGPA      = types.ColumnGPA
	columnStudents = types.ColumnStudents
)

// Selection is the user-chosen filter key
type Selection struct {
	Term    string `json:"term"`
	Subject string `json:"subject"`
	Catalog string `json:"catalog"`
}

// Matches reports whether r matches the selection. Term is compared exactly,
// subject case-insensitively and catalog number ignoring surrounding spaces.
func (s Selection) Matches(r Record, termColumn types.ColumnName) bool {
	if r.Value(string(termColumn)) != s.Term {
		return false
	}
	if strings.ToUpper(r.Value(string(columnSubject))) != strings.ToUpper(strings.TrimSpace(s.Subject)) {
		return false
	}
	return strings.TrimSpace(r.Value(string(columnCatalog))) == strings.TrimSpace(s.Catalog)
}
