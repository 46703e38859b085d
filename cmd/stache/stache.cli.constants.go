package main

// Command names
const (
	CmdNameRender  = "render"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Flag names - long form
const (
	FlagTemplate       = "template"
	FlagData           = "data"
	FlagDataFile       = "data-file"
	FlagPartials       = "partials"
	FlagPartialsDriver = "partials-driver"
	FlagPartialsDSN    = "partials-dsn"
	FlagDelims         = "delims"
	FlagMaxDepth       = "max-depth"
	FlagOutput         = "output"
	FlagVerbose        = "verbose"
	FlagFormat         = "format"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagPartialsShort = "p"
	FlagOutputShort   = "o"
	FlagVerboseShort  = "v"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Data file extensions decoded as YAML; everything else is JSON
const (
	DataExtYAML = ".yaml"
	DataExtYML  = ".yml"
)

// Exit codes
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeInputError = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand      = "unknown command"
	ErrMsgMissingTemplate     = "template source required"
	ErrMsgInvalidFlags        = "invalid arguments"
	ErrMsgInvalidData         = "invalid data"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgRenderFailed        = "template rendering failed"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgInvalidDelims       = "delims must be two whitespace-separated tokens"
	ErrMsgConflictingData     = "use either --data or --data-file, not both"
	ErrMsgConflictingPartials = "use either --partials or --partials-driver, not both"
	ErrMsgMissingPartialsDSN  = "--partials-dsn requires --partials-driver"
	ErrMsgOpenPartialsFailed  = "failed to open partials"
	ErrMsgEngineFailed        = "failed to create engine"
)

// Log messages and fields
const (
	LogMsgOpenPartials = "opening partial store"
	LogFieldDriver     = "driver"
)

// Help text templates
const (
	HelpMainUsage = `stache - logic-less template rendering CLI

Usage:
    stache <command> [options]

Commands:
    render      Render a template with data
    version     Show version information
    help        Show help for a command

Use "stache help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with data

Usage:
    stache render [options]

Options:
    -t, --template <file>        Template file (use "-" for stdin)
    -d, --data <json>            JSON data string
    -f, --data-file <file>       Data file, JSON or YAML (.yaml, .yml)
    -p, --partials <dir>         Directory of <name>.mustache partials
    --partials-driver <name>     Partial loader driver (memory, filesystem, sqlite, postgres)
    --partials-dsn <dsn>         Connection string for --partials-driver
    --delims "<open> <close>"    Starting delimiters (default: "{{ }}")
    --max-depth <n>              Partial nesting limit, 0 for unlimited (default: 32)
    -o, --output <file>          Output file (default: stdout)
    -v, --verbose                Log render steps to stderr

Examples:
    stache render -t page.mustache -d '{"name": "Alice"}'
    stache render -t page.mustache -f data.yaml -p ./partials
    cat page.mustache | stache render -t - -d '{"items": [1, 2]}'
    stache render -t page.mustache --partials-driver sqlite --partials-dsn partials.db -o page.html`

	HelpVersionUsage = `Show version information

Usage:
    stache version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    stache help [command]

Commands:
    render      Show help for render command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "stache version %s\nCommit: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// CLI metadata
const (
	CLIName        = "stache"
	CLIDescription = "logic-less template rendering CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
