// Package types defines every cross-package data structure used by the codegather CLI.
package types

const (
	CommandRun  = "run"
	CommandInit = "init"

	// RootNamePlaceholder is replaced with the scanned root's base name in session prompts.
	RootNamePlaceholder = "[root directory name]"
)

// SelectionEntry is one file chosen for the artifact during a scan.
type SelectionEntry struct {
	RelativePath string `json:"relativePath"`
	AbsolutePath string `json:"absolutePath"`
	Included     bool   `json:"included"`
	SizeBytes    int64  `json:"sizeBytes"`
}

// Warning is a non-fatal condition collected during a run.
type Warning struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// String renders the warning for log output.
func (warning Warning) String() string {
	if warning.Path == "" {
		return warning.Message
	}
	return warning.Path + ": " + warning.Message
}

// OutputSummary captures aggregate information about a written artifact.
type OutputSummary struct {
	TotalFiles  int    `json:"totalFiles"`
	TotalSize   string `json:"totalSize"`
	TotalTokens int    `json:"totalTokens,omitempty"`
	Model       string `json:"model,omitempty"`
}
