package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/treemerge/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `# treemerge configuration
root: .
output: merged_project.txt
# use_defaults keeps the reference exclusion sets; the lists below are added to them.
use_defaults: true
use_ignore: true
exclude_dirs: []
exclude_files: []
# decode is replace (invalid UTF-8 becomes U+FFFD) or drop (invalid bytes are removed).
decode: replace
summary: true
clipboard: false
tokens:
  enabled: false
  model: gpt-4o
`
)

// ErrConfigurationExists reports that init would overwrite an existing file without --force.
var ErrConfigurationExists = errors.New("configuration file already exists")

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// ConfigurationPath returns the configuration file location for target.
func ConfigurationPath(target InitTarget, workingDirectory string) (string, error) {
	switch target {
	case InitTargetLocal, "":
		if workingDirectory == "" {
			currentDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf("determine working directory: %w", workingDirectoryError)
			}
			workingDirectory = currentDirectory
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, homeDirectoryError := os.UserHomeDir()
		if homeDirectoryError != nil {
			return "", fmt.Errorf("resolve home directory: %w", homeDirectoryError)
		}
		return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}
}

// InitializeConfiguration writes the commented default configuration for options.Target and
// returns the written path. An existing file is replaced only when options.Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, pathError := ConfigurationPath(options.Target, options.WorkingDirectory)
	if pathError != nil {
		return "", pathError
	}
	if mkdirError := os.MkdirAll(filepath.Dir(destinationPath), 0o755); mkdirError != nil {
		return "", fmt.Errorf("create configuration directory: %w", mkdirError)
	}

	openFlags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if options.Force {
		openFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	configurationFile, openError := os.OpenFile(destinationPath, openFlags, 0o600)
	if openError != nil {
		if errors.Is(openError, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrConfigurationExists, destinationPath)
		}
		return "", fmt.Errorf("open %s: %w", destinationPath, openError)
	}
	_, writeError := configurationFile.WriteString(defaultConfigurationTemplate)
	closeError := configurationFile.Close()
	if writeError != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, writeError)
	}
	if closeError != nil {
		return "", fmt.Errorf("close %s: %w", destinationPath, closeError)
	}
	return destinationPath, nil
}
