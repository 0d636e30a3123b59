package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/temirov/codegather/internal/patterns"
	"github.com/temirov/codegather/internal/types"
	"github.com/temirov/codegather/internal/utils"
)

const (
	commentPrefix        = "#"
	keyValueSeparator    = ":"
	extensionSeparator   = ","
	includeSectionHeader = "[include]"
	excludeSectionHeader = "[exclude]"

	keyOutputFile        = "output_file"
	keySessionPromptFile = "session_prompt_file"
	keyNoHeader          = "no_header"
	keyDefaultExtensions = "default_extensions"

	unknownKeyMessageFormat      = "unknown key %q"
	emptyKeyMessage              = "missing key before ':'"
	invalidBooleanMessageFormat  = "invalid boolean %q for %s"
	unknownSectionMessageFormat  = "unknown section %s"
	invalidPatternMessage        = "invalid pattern"
	configurationIsDirectoryText = "configuration path is a directory"
	readConfigurationMessage     = "read configuration"
)

type patternSection int

const (
	sectionUnspecified patternSection = iota
	sectionInclude
	sectionExclude
)

var (
	trueLiterals  = map[string]struct{}{"true": {}, "yes": {}, "1": {}, "on": {}}
	falseLiterals = map[string]struct{}{"false": {}, "no": {}, "0": {}, "off": {}}
)

// FileSettings is the content of one .codegatherignore file before resolution.
// Nil pointers mark keys the file did not set.
type FileSettings struct {
	SourcePath        string
	Found             bool
	OutputFile        *string
	SessionPromptFile *string
	NoHeader          *bool
	DefaultExtensions []string
	IncludePatterns   []string
	ExcludePatterns   []string
}

// LoadConfigurationFile reads and parses the configuration at path. A missing
// file yields empty settings with Found set to false.
//
// #nosec G304
func LoadConfigurationFile(path string) (FileSettings, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		if os.IsNotExist(openError) {
			return FileSettings{SourcePath: path}, nil
		}
		return FileSettings{}, types.WrapError(openError, types.ErrorCodeConfigParse, path, readConfigurationMessage)
	}
	defer fileHandle.Close()

	fileInformation, statError := fileHandle.Stat()
	if statError != nil {
		return FileSettings{}, types.WrapError(statError, types.ErrorCodeConfigParse, path, readConfigurationMessage)
	}
	if fileInformation.IsDir() {
		return FileSettings{}, types.NewError(types.ErrorCodeConfigParse, path, configurationIsDirectoryText)
	}

	settings, parseError := ParseConfiguration(fileHandle, path)
	if parseError != nil {
		return FileSettings{}, parseError
	}
	settings.Found = true
	return settings, nil
}

// ParseConfiguration parses configuration text. sourceName is used in error messages.
//
// Lines are either comments, "key: value" settings, "[include]"/"[exclude]"
// section headers, or bare patterns. A bare pattern before any header is an
// include when it is a plain "*.ext" and an exclude otherwise.
func ParseConfiguration(reader io.Reader, sourceName string) (FileSettings, error) {
	settings := FileSettings{SourcePath: sourceName}
	currentSection := sectionUnspecified
	scanner := bufio.NewScanner(reader)
	lineNumber := 0

	parseFailure := func(format string, arguments ...interface{}) error {
		return &types.GatherError{
			Code:    types.ErrorCodeConfigParse,
			Path:    sourceName,
			Line:    lineNumber,
			Message: fmt.Sprintf(format, arguments...),
		}
	}

	for scanner.Scan() {
		lineNumber++
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}

		if isSectionHeader(trimmedLine) {
			switch strings.ToLower(trimmedLine) {
			case includeSectionHeader:
				currentSection = sectionInclude
			case excludeSectionHeader:
				currentSection = sectionExclude
			default:
				return FileSettings{}, parseFailure(unknownSectionMessageFormat, trimmedLine)
			}
			continue
		}

		if key, value, isSetting := splitSetting(trimmedLine); isSetting {
			if key == "" {
				return FileSettings{}, parseFailure(emptyKeyMessage)
			}
			switch key {
			case keyOutputFile:
				settings.OutputFile = stringPointer(value)
			case keySessionPromptFile:
				settings.SessionPromptFile = stringPointer(value)
			case keyNoHeader:
				booleanValue, valid := parseBoolean(value)
				if !valid {
					return FileSettings{}, parseFailure(invalidBooleanMessageFormat, value, keyNoHeader)
				}
				settings.NoHeader = &booleanValue
			case keyDefaultExtensions:
				settings.DefaultExtensions = ParseExtensions(value)
			default:
				return FileSettings{}, parseFailure(unknownKeyMessageFormat, key)
			}
			continue
		}

		if validationError := patterns.Validate(trimmedLine); validationError != nil {
			return FileSettings{}, &types.GatherError{
				Code:    types.ErrorCodeConfigParse,
				Path:    sourceName,
				Line:    lineNumber,
				Message: invalidPatternMessage,
				Err:     validationError,
			}
		}
		switch currentSection {
		case sectionInclude:
			settings.IncludePatterns = append(settings.IncludePatterns, trimmedLine)
		case sectionExclude:
			settings.ExcludePatterns = append(settings.ExcludePatterns, trimmedLine)
		default:
			if isSimpleExtensionPattern(trimmedLine) {
				settings.IncludePatterns = append(settings.IncludePatterns, trimmedLine)
			} else {
				settings.ExcludePatterns = append(settings.ExcludePatterns, trimmedLine)
			}
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return FileSettings{}, types.WrapError(scanError, types.ErrorCodeConfigParse, sourceName, readConfigurationMessage)
	}

	settings.IncludePatterns = utils.DeduplicatePatterns(settings.IncludePatterns)
	settings.ExcludePatterns = utils.DeduplicatePatterns(settings.ExcludePatterns)
	settings.DefaultExtensions = utils.DeduplicatePatterns(settings.DefaultExtensions)
	return settings, nil
}

// ParseExtensions converts a comma-separated extension list to glob patterns.
// "py", ".py" and "*.py" all become "*.py"; entries that already carry glob
// meta characters or a separator are kept as written.
func ParseExtensions(value string) []string {
	var result []string
	for _, rawExtension := range strings.Split(value, extensionSeparator) {
		extension := strings.TrimSpace(rawExtension)
		switch {
		case extension == "":
			continue
		case strings.ContainsAny(extension, "*?[/\\"):
			result = append(result, extension)
		case strings.HasPrefix(extension, "."):
			result = append(result, "*"+extension)
		default:
			result = append(result, "*."+extension)
		}
	}
	return result
}

// splitSetting recognizes "key: value" lines. The key must be an identifier so
// that patterns containing ':' elsewhere are not mistaken for settings.
func splitSetting(line string) (string, string, bool) {
	separatorIndex := strings.Index(line, keyValueSeparator)
	if separatorIndex < 0 {
		return "", "", false
	}
	rawKey := strings.TrimSpace(line[:separatorIndex])
	if !isIdentifier(rawKey) {
		return "", "", false
	}
	value := line[separatorIndex+1:]
	if commentIndex := strings.Index(value, commentPrefix); commentIndex >= 0 {
		value = value[:commentIndex]
	}
	key := strings.ReplaceAll(strings.ToLower(rawKey), "-", "_")
	return key, strings.TrimSpace(value), true
}

func isIdentifier(value string) bool {
	for _, character := range value {
		isLetter := (character >= 'a' && character <= 'z') || (character >= 'A' && character <= 'Z')
		if !isLetter && character != '_' && character != '-' {
			return false
		}
	}
	return true
}

func isSectionHeader(line string) bool {
	if len(line) < 3 || !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return false
	}
	return isIdentifier(line[1:len(line)-1]) && line[1:len(line)-1] != ""
}

// isSimpleExtensionPattern matches "*.ext" where ext holds only letters, digits and dots.
func isSimpleExtensionPattern(line string) bool {
	if !strings.HasPrefix(line, "*.") || strings.ContainsAny(line, "/\\") {
		return false
	}
	extension := line[2:]
	if extension == "" {
		return false
	}
	for _, character := range extension {
		isAlphanumeric := (character >= 'a' && character <= 'z') || (character >= 'A' && character <= 'Z') || (character >= '0' && character <= '9')
		if !isAlphanumeric && character != '.' {
			return false
		}
	}
	return true
}

func parseBoolean(value string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if _, matches := trueLiterals[normalized]; matches {
		return true, true
	}
	if _, matches := falseLiterals[normalized]; matches {
		return false, true
	}
	return false, false
}

func stringPointer(value string) *string {
	copied := value
	return &copied
}
