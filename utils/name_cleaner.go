package utils

import (
	"strings"

	"github.com/Aashish23092/agent-ranking-parser/dto"
)

// PDF line-wrap artifacts that leak into agent names as literal text
var nameArtifacts = strings.NewReplacer(
	`\n`, " ",
	"Count List", " ",
)

// CleanName strips extraction artifacts and collapses whitespace
func CleanName(name string) string {
	return strings.Join(strings.Fields(nameArtifacts.Replace(name)), " ")
}

// ApplyNameFix returns the corrected spelling for name, or name itself
func ApplyNameFix(name string, fixes dto.NameFixes) string {
	if fixed, ok := fixes[name]; ok {
		return fixed
	}
	return name
}
