// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treemerge/internal/config"
	"github.com/temirov/treemerge/internal/merge"
	"github.com/temirov/treemerge/internal/output"
	"github.com/temirov/treemerge/internal/services/clipboard"
	"github.com/temirov/treemerge/internal/tokenizer"
	"github.com/temirov/treemerge/internal/utils"
)

const (
	outputFlagName       = "output"
	outputFlagShorthand  = "o"
	excludeDirFlagName   = "exclude-dir"
	excludeDirShorthand  = "e"
	excludeFileFlagName  = "exclude-file"
	excludeFileShorthand = "x"
	noDefaultsFlagName   = "no-defaults"
	noIgnoreFlagName     = "no-ignore"
	decodeFlagName       = "decode"
	summaryFlagName      = "summary"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	copyFlagName         = "copy"
	configFlagName       = "config"
	versionFlagName      = "version"
	verboseFlagName      = "verbose"
	verboseFlagShorthand = "v"
	globalFlagName       = "global"
	forceFlagName        = "force"

	versionTemplate      = "treemerge version: %s\n"
	rootUse              = "treemerge [root]"
	rootShortDescription = "merge a directory tree into one text file"
	rootLongDescription  = `treemerge walks a directory tree and concatenates the text of every selected
file into a single output file. Each file is introduced by a header line naming its path.

Directories whose path contains any excluded substring are skipped together with
everything below them. Files whose name equals an excluded name are skipped in every
directory. Files that cannot be read are reported and skipped.`
	rootUsageExample = `  # Merge the current directory into merged_project.txt
  treemerge

  # Merge ./src, skipping vendor directories and go.sum files
  treemerge ./src -o snapshot.txt -e vendor -x go.sum

  # Start from empty exclusion sets and drop undecodable bytes
  treemerge --no-defaults --decode drop`
	initUse              = "init"
	initShortDescription = "write a default configuration file"

	outputFlagDescription      = "output file, truncated if it exists"
	excludeDirFlagDescription  = "exclude directories whose path contains this substring (repeatable)"
	excludeFileFlagDescription = "exclude files with exactly this name (repeatable)"
	noDefaultsFlagDescription  = "do not apply the reference exclusion sets"
	noIgnoreFlagDescription    = "do not read " + config.IgnoreFileName + " from the root"
	decodeFlagDescription      = "handling of invalid UTF-8: replace or drop"
	summaryFlagDescription     = "log a summary of the merged output"
	tokensFlagDescription      = "include a token estimate of the merged output in the summary (requires --summary)"
	modelFlagDescription       = "tokenizer model to use for token counting"
	copyFlagDescription        = "copy the merged output to the clipboard"
	configFlagDescription      = "configuration file to use instead of ./" + utils.ConfigFileName
	versionFlagDescription     = "display application version"
	verboseFlagDescription     = "log excluded directories and files"
	globalFlagDescription      = "write the configuration under the home directory"
	forceFlagDescription       = "overwrite an existing configuration file"

	completionMessageFormat         = "All files merged into %s"
	configurationWrittenFormat      = "Configuration written to %s"
	warningTokenCountFormat         = "Warning: failed to count tokens for %s: %v"
	errorWorkingDirectoryFormat     = "unable to determine working directory: %w"
	errorCounterFormat              = "initialize tokenizer: %w"
	errorClipboardFormat            = "clipboard: %w"
	errorMergeFormat                = "merge %s into %s: %w"
	errorLoadRootExclusionsWrapping = "load root exclusions: %w"
)

// ErrTokensRequireSummary reports a token estimate requested while the summary line that carries it is disabled.
var ErrTokensRequireSummary = errors.New("--tokens requires --summary: the token estimate is reported in the summary line")

// CounterFactory creates token counters for the --tokens flag.
type CounterFactory func(tokenizer.Config) (tokenizer.Counter, string, error)

// Dependencies are the collaborators the commands use. Zero values are replaced with production defaults.
type Dependencies struct {
	Logger           *zap.Logger
	LogLevel         *zap.AtomicLevel
	FileSystem       afero.Fs
	Copier           clipboard.Copier
	NewCounter       CounterFactory
	WorkingDirectory string
	ExecutableName   string
}

func (dependencies Dependencies) withDefaults() (Dependencies, error) {
	resolved := dependencies
	if resolved.Logger == nil {
		resolved.Logger = zap.NewNop()
	}
	if resolved.FileSystem == nil {
		resolved.FileSystem = afero.NewOsFs()
	}
	if resolved.Copier == nil {
		resolved.Copier = clipboard.NewService()
	}
	if resolved.NewCounter == nil {
		resolved.NewCounter = tokenizer.NewCounter
	}
	if resolved.WorkingDirectory == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return Dependencies{}, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		resolved.WorkingDirectory = workingDirectory
	}
	if resolved.ExecutableName == "" {
		resolved.ExecutableName = config.CurrentExecutableName()
	}
	return resolved, nil
}

// Execute runs the treemerge application. logLevel, when set, is lowered to debug by --verbose.
func Execute(logger *zap.Logger, logLevel *zap.AtomicLevel) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger, LogLevel: logLevel})
	rootCommand.SetArgs(expandToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// mergeFlags stores the values of the merge flags.
type mergeFlags struct {
	outputPath   string
	excludeDirs  []string
	excludeFiles []string
	noDefaults   bool
	noIgnore     bool
	decodeMode   string
	summary      bool
	tokens       bool
	model        string
	copyOutput   bool
	configPath   string
}

// NewRootCommand builds the root Cobra command, which performs the merge.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var showVersion bool
	var verbose bool
	var flags mergeFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			if verbose && dependencies.LogLevel != nil {
				dependencies.LogLevel.SetLevel(zap.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			resolvedDependencies, dependenciesError := dependencies.withDefaults()
			if dependenciesError != nil {
				return dependenciesError
			}
			rootArgument := ""
			if len(arguments) == 1 {
				rootArgument = arguments[0]
			}
			return runMerge(command, resolvedDependencies, rootArgument, flags)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&flags.configPath, configFlagName, "", configFlagDescription)

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&flags.outputPath, outputFlagName, outputFlagShorthand, config.DefaultOutputFileName, outputFlagDescription)
	flagSet.StringArrayVarP(&flags.excludeDirs, excludeDirFlagName, excludeDirShorthand, nil, excludeDirFlagDescription)
	flagSet.StringArrayVarP(&flags.excludeFiles, excludeFileFlagName, excludeFileShorthand, nil, excludeFileFlagDescription)
	flagSet.StringVar(&flags.decodeMode, decodeFlagName, string(merge.DecodeReplace), decodeFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, config.DefaultTokenizerModel, modelFlagDescription)
	addToggleFlag(flagSet, &flags.noDefaults, noDefaultsFlagName, false, noDefaultsFlagDescription)
	addToggleFlag(flagSet, &flags.noIgnore, noIgnoreFlagName, false, noIgnoreFlagDescription)
	addToggleFlag(flagSet, &flags.summary, summaryFlagName, true, summaryFlagDescription)
	addToggleFlag(flagSet, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	addToggleFlag(flagSet, &flags.copyOutput, copyFlagName, false, copyFlagDescription)

	rootCommand.AddCommand(newInitCommand(dependencies))
	return rootCommand
}

// newInitCommand returns the init subcommand.
func newInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			resolvedDependencies, dependenciesError := dependencies.withDefaults()
			if dependenciesError != nil {
				return dependenciesError
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: resolvedDependencies.WorkingDirectory,
			})
			if initError != nil {
				return initError
			}
			resolvedDependencies.Logger.Info(fmt.Sprintf(configurationWrittenFormat, writtenPath))
			return nil
		},
	}
	addToggleFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	addToggleFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runSettings is the effective configuration of a merge after flags, files and defaults are combined.
type runSettings struct {
	rootPath    string
	outputPath  string
	options     merge.Options
	summary     bool
	tokens      bool
	model       string
	copyOutput  bool
	useDefaults bool
	useIgnore   bool
}

// resolveRunSettings applies precedence: explicit flags, then configuration files, then reference defaults.
func resolveRunSettings(command *cobra.Command, dependencies Dependencies, rootArgument string, flags mergeFlags) (runSettings, error) {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if loadError != nil {
		return runSettings{}, loadError
	}
	changed := command.Flags().Changed

	settings := runSettings{
		rootPath:    firstNonEmpty(rootArgument, applicationConfiguration.Root, config.DefaultRootPath),
		outputPath:  firstNonEmpty(explicitString(changed(outputFlagName), flags.outputPath), applicationConfiguration.Output, config.DefaultOutputFileName),
		summary:     resolveBool(changed(summaryFlagName), flags.summary, applicationConfiguration.Summary, true),
		tokens:      resolveBool(changed(tokensFlagName), flags.tokens, applicationConfiguration.Tokens.Enabled, false),
		model:       firstNonEmpty(explicitString(changed(modelFlagName), flags.model), applicationConfiguration.Tokens.Model, config.DefaultTokenizerModel),
		copyOutput:  resolveBool(changed(copyFlagName), flags.copyOutput, applicationConfiguration.Clipboard, false),
		useDefaults: resolveBool(changed(noDefaultsFlagName), !flags.noDefaults, applicationConfiguration.UseDefaults, true),
		useIgnore:   resolveBool(changed(noIgnoreFlagName), !flags.noIgnore, applicationConfiguration.UseIgnore, true),
	}

	if settings.tokens && !settings.summary {
		return runSettings{}, ErrTokensRequireSummary
	}

	decodeMode, decodeModeError := merge.ParseDecodeMode(firstNonEmpty(explicitString(changed(decodeFlagName), flags.decodeMode), applicationConfiguration.Decode))
	if decodeModeError != nil {
		return runSettings{}, decodeModeError
	}

	additional := config.ExclusionSets{
		DirectorySubstrings: flags.excludeDirs,
		FileNames:           flags.excludeFiles,
	}
	if settings.useIgnore && isDirectory(dependencies.FileSystem, settings.rootPath) {
		rootExclusions, rootExclusionsError := config.LoadRootExclusions(dependencies.FileSystem, settings.rootPath)
		if rootExclusionsError != nil {
			return runSettings{}, fmt.Errorf(errorLoadRootExclusionsWrapping, rootExclusionsError)
		}
		additional.DirectorySubstrings = append(append([]string{}, rootExclusions.DirectorySubstrings...), additional.DirectorySubstrings...)
		additional.FileNames = append(append([]string{}, rootExclusions.FileNames...), additional.FileNames...)
	}
	exclusions := applicationConfiguration.ResolveExclusions(dependencies.ExecutableName, settings.useDefaults, additional)
	settings.options = merge.Options{
		ExcludedDirectorySubstrings: exclusions.DirectorySubstrings,
		ExcludedFileNames:           exclusions.FileNames,
		DecodeMode:                  decodeMode,
	}
	return settings, nil
}

// runMerge performs the merge and the optional summary, token estimate and clipboard copy.
func runMerge(command *cobra.Command, dependencies Dependencies, rootArgument string, flags mergeFlags) error {
	settings, settingsError := resolveRunSettings(command, dependencies, rootArgument, flags)
	if settingsError != nil {
		return settingsError
	}

	merger := merge.NewMerger(merge.WithFileSystem(dependencies.FileSystem), merge.WithLogger(dependencies.Logger))
	result, mergeError := merger.Merge(settings.rootPath, settings.outputPath, settings.options)
	if mergeError != nil {
		return fmt.Errorf(errorMergeFormat, settings.rootPath, settings.outputPath, mergeError)
	}

	if settings.summary {
		summary := output.Summary{
			MergedFiles:  result.FilesMerged,
			SkippedFiles: result.FilesFailed,
			TotalBytes:   result.BytesWritten,
		}
		if settings.tokens {
			counter, modelName, counterError := dependencies.NewCounter(tokenizer.Config{Model: settings.model})
			if counterError != nil {
				return fmt.Errorf(errorCounterFormat, counterError)
			}
			countResult, countError := tokenizer.CountFile(counter, dependencies.FileSystem, settings.outputPath)
			if countError != nil {
				dependencies.Logger.Warn(fmt.Sprintf(warningTokenCountFormat, settings.outputPath, countError))
			} else if countResult.Counted {
				summary.TotalTokens = countResult.Tokens
				summary.Model = modelName
			}
		}
		dependencies.Logger.Info(output.FormatSummaryLine(summary))
	}

	if settings.copyOutput {
		if copyError := clipboard.CopyFile(dependencies.Copier, dependencies.FileSystem, settings.outputPath); copyError != nil {
			return fmt.Errorf(errorClipboardFormat, copyError)
		}
	}

	dependencies.Logger.Info(fmt.Sprintf(completionMessageFormat, settings.outputPath))
	return nil
}

// explicitString returns value when the flag was set on the command line and an empty string otherwise.
func explicitString(flagChanged bool, value string) string {
	if !flagChanged {
		return utils.EmptyString
	}
	return value
}

// resolveBool prefers an explicit flag, then a configured value, then fallback.
func resolveBool(flagChanged bool, flagValue bool, configured *bool, fallback bool) bool {
	if flagChanged {
		return flagValue
	}
	return config.BoolValue(configured, fallback)
}

// isDirectory reports whether path names a directory. Anything else is left for the merger to report.
func isDirectory(fileSystem afero.Fs, path string) bool {
	isDirectoryPath, statError := afero.IsDir(fileSystem, path)
	return statError == nil && isDirectoryPath
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != utils.EmptyString {
			return value
		}
	}
	return utils.EmptyString
}
