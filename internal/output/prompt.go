package output

import (
	"os"
	"strings"

	"github.com/temirov/codegather/internal/types"
)

const promptLoadFailureMessage = "cannot load session prompt"

// SessionPrompt holds a prompt template and its text after placeholder substitution.
type SessionPrompt struct {
	Template string
	Resolved string
}

// LoadSessionPrompt reads the template at promptPath and resolves it for rootName.
func LoadSessionPrompt(promptPath string, rootName string) (SessionPrompt, error) {
	data, readError := os.ReadFile(promptPath)
	if readError != nil {
		return SessionPrompt{}, types.WrapError(readError, types.ErrorCodePromptLoad, promptPath, promptLoadFailureMessage)
	}
	template := string(data)
	return SessionPrompt{Template: template, Resolved: ResolvePrompt(template, rootName)}, nil
}

// ResolvePrompt replaces every root name placeholder in template with rootName.
func ResolvePrompt(template string, rootName string) string {
	return strings.ReplaceAll(template, types.RootNamePlaceholder, rootName)
}
