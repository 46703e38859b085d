package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/itsatony/go-stache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath   string
	dataJSON       string
	dataFilePath   string
	partialsDir    string
	partialsDriver string
	partialsDSN    string
	delims         string
	maxDepth       int
	outputPath     string
	verbose        bool
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	data, err := loadData(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	logger := zap.NewNop()
	if cfg.verbose {
		logger = newStderrLogger(stderr)
	}
	defer func() { _ = logger.Sync() }()

	opts := []stache.Option{
		stache.WithLogger(logger),
		stache.WithMaxPartialDepth(cfg.maxDepth),
	}
	if cfg.delims != "" {
		tokens := strings.Fields(cfg.delims)
		opts = append(opts, stache.WithDelimiters(tokens[0], tokens[1]))
	}

	store, err := openPartials(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgOpenPartialsFailed, err)
		return ExitCodeInputError
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, stache.WithPartialLoader(
			stache.NewCachedLoader(store, stache.DefaultCacheConfig(), logger),
		))
	}

	engine, err := stache.New(opts...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeUsageError
	}

	result, err := engine.Render(context.Background(), string(templateSource), data)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeError
	}

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.partialsDir, FlagPartials, "", "")
	fs.StringVar(&cfg.partialsDir, FlagPartialsShort, "", "")
	fs.StringVar(&cfg.partialsDriver, FlagPartialsDriver, "", "")
	fs.StringVar(&cfg.partialsDSN, FlagPartialsDSN, "", "")
	fs.StringVar(&cfg.delims, FlagDelims, "", "")
	fs.IntVar(&cfg.maxDepth, FlagMaxDepth, stache.DefaultMaxPartialDepth, "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if cfg.delims != "" && len(strings.Fields(cfg.delims)) != 2 {
		return nil, errors.New(ErrMsgInvalidDelims)
	}
	if cfg.dataJSON != "" && cfg.dataFilePath != "" {
		return nil, errors.New(ErrMsgConflictingData)
	}
	if cfg.partialsDir != "" && cfg.partialsDriver != "" {
		return nil, errors.New(ErrMsgConflictingPartials)
	}
	if cfg.partialsDSN != "" && cfg.partialsDriver == "" {
		return nil, errors.New(ErrMsgMissingPartialsDSN)
	}

	return cfg, nil
}

// openPartials opens the partial store selected by the flags, or nil when
// none was requested.
func openPartials(cfg *renderConfig, logger *zap.Logger) (stache.PartialStore, error) {
	switch {
	case cfg.partialsDir != "":
		return stache.NewFilesystemLoader(cfg.partialsDir, stache.DefaultFilesystemPattern)
	case cfg.partialsDriver != "":
		logger.Debug(LogMsgOpenPartials, zap.String(LogFieldDriver, cfg.partialsDriver))
		return stache.OpenLoader(cfg.partialsDriver, cfg.partialsDSN)
	default:
		return nil, nil
	}
}

// newStderrLogger builds a development console logger writing to stderr.
func newStderrLogger(stderr io.Writer) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(stderr), zapcore.DebugLevel)
	return zap.New(core)
}
