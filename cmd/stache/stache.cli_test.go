package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testTemplateContent = "Hello, {{user}}!"
	testDataJSON        = `{"user": "Alice"}`
	testDataYAML        = "user: Bob\n"
	testExpectedOutput  = "Hello, Alice!"
)

// setupTestData creates test files in a temp directory
func setupTestData(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	files := map[string]string{
		"template.mustache":        testTemplateContent,
		"data.json":                testDataJSON,
		"data.yaml":                testDataYAML,
		"bad.json":                 "{not json",
		"page.mustache":            "[{{> header}}]",
		"partials/header.mustache": "<h1>{{title}}</h1>",
		"delims.mustache":          "<% user %> {{user}}",
		"unknown.mustache":         "{{&user}}",
	}
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
	}

	return tmpDir
}

func runCLI(args []string, stdin string) (int, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI(nil, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName)
	assert.Contains(t, stdout, CmdNameRender)
}

func TestRun_UnknownCommand(t *testing.T) {
	code, stdout, _ := runCLI([]string{"unknown"}, "")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stdout, ErrMsgUnknownCommand)
}

// ==================== Help command tests ====================

func TestHelp(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     string
	}{
		{"main", nil, ExitCodeSuccess, HelpMainUsage},
		{"render", []string{CmdNameRender}, ExitCodeSuccess, HelpRenderUsage},
		{"version", []string{CmdNameVersion}, ExitCodeSuccess, HelpVersionUsage},
		{"help", []string{CmdNameHelp}, ExitCodeSuccess, HelpHelpUsage},
		{"unknown", []string{"nope"}, ExitCodeUsageError, ErrMsgUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			code := runHelp(tt.args, stdout)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stdout.String(), tt.want)
		})
	}
}

// ==================== Version command tests ====================

func TestVersion_TextFormat(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameVersion}, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName+" version")
	assert.Contains(t, stdout, "Go: ")
}

func TestVersion_JSONFormat(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameVersion, "-F", OutputFormatJSON}, "")
	require.Equal(t, ExitCodeSuccess, code)

	var out versionOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.NotEmpty(t, out.Version)
	assert.NotEmpty(t, out.GoVersion)
}

func TestVersion_InvalidFormat(t *testing.T) {
	code, _, stderr := runCLI([]string{CmdNameVersion, "--format", "xml"}, "")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidFormat)
}

// ==================== Render command tests ====================

func TestRender_WithInlineJSON(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameRender,
		"-t", filepath.Join(dir, "template.mustache"),
		"-d", testDataJSON,
	}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)
}

func TestRender_WithDataFiles(t *testing.T) {
	dir := setupTestData(t)

	tests := []struct {
		file string
		want string
	}{
		{"data.json", "Hello, Alice!"},
		{"data.yaml", "Hello, Bob!"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			code, stdout, stderr := runCLI([]string{CmdNameRender,
				"--template", filepath.Join(dir, "template.mustache"),
				"--data-file", filepath.Join(dir, tt.file),
			}, "")

			require.Equal(t, ExitCodeSuccess, code, stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestRender_FromStdin(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameRender, "-t", "-", "-d", `{"items": [1, 2]}`},
		"{{#items}}{{.}},{{/items}}")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "1,2,", stdout)
}

func TestRender_WithPartialsDir(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameRender,
		"-t", filepath.Join(dir, "page.mustache"),
		"-d", `{"title": "A&B"}`,
		"-p", filepath.Join(dir, "partials"),
	}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "[<h1>A&amp;B</h1>]", stdout)
}

func TestRender_WithPartialsDriver(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameRender,
		"-t", filepath.Join(dir, "page.mustache"),
		"-d", `{"title": "T"}`,
		"--partials-driver", "filesystem",
		"--partials-dsn", filepath.Join(dir, "partials"),
	}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "[<h1>T</h1>]", stdout)
}

func TestRender_WithDelims(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, stderr := runCLI([]string{CmdNameRender,
		"-t", filepath.Join(dir, "delims.mustache"),
		"-d", testDataJSON,
		"--delims", "<% %>",
	}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "Alice {{user}}", stdout)
}

func TestRender_ToOutputFile(t *testing.T) {
	dir := setupTestData(t)
	outPath := filepath.Join(dir, "out.txt")

	code, stdout, stderr := runCLI([]string{CmdNameRender,
		"-t", filepath.Join(dir, "template.mustache"),
		"-d", testDataJSON,
		"-o", outPath,
	}, "")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Empty(t, stdout)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, testExpectedOutput, string(written))
}

func TestRender_Verbose_LogsToStderr(t *testing.T) {
	code, stdout, stderr := runCLI([]string{CmdNameRender, "-t", "-", "-v"}, "x{{y}}")

	require.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "x", stdout)
	assert.NotEmpty(t, stderr)
}

func TestRender_Errors(t *testing.T) {
	dir := setupTestData(t)
	tmpl := filepath.Join(dir, "template.mustache")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{
			name:       "missing template",
			args:       []string{},
			wantCode:   ExitCodeUsageError,
			wantStderr: ErrMsgMissingTemplate,
		},
		{
			name:       "bad delims",
			args:       []string{"-t", tmpl, "--delims", "<%"},
			wantCode:   ExitCodeUsageError,
			wantStderr: ErrMsgInvalidDelims,
		},
		{
			name:       "conflicting data sources",
			args:       []string{"-t", tmpl, "-d", `{"a":1}`, "-f", filepath.Join(dir, "bad.json")},
			wantCode:   ExitCodeUsageError,
			wantStderr: ErrMsgConflictingData,
		},
		{
			name:       "conflicting partial sources",
			args:       []string{"-t", tmpl, "-p", dir, "--partials-driver", "memory"},
			wantCode:   ExitCodeUsageError,
			wantStderr: ErrMsgConflictingPartials,
		},
		{
			name:       "dsn without driver",
			args:       []string{"-t", tmpl, "--partials-dsn", "x.db"},
			wantCode:   ExitCodeUsageError,
			wantStderr: ErrMsgMissingPartialsDSN,
		},
		{
			name:       "missing template file",
			args:       []string{"-t", filepath.Join(dir, "nope.mustache")},
			wantCode:   ExitCodeInputError,
			wantStderr: ErrMsgReadFileFailed,
		},
		{
			name:       "invalid JSON",
			args:       []string{"-t", tmpl, "-f", filepath.Join(dir, "bad.json")},
			wantCode:   ExitCodeInputError,
			wantStderr: ErrMsgInvalidData,
		},
		{
			name:       "unknown driver",
			args:       []string{"-t", tmpl, "--partials-driver", "redis"},
			wantCode:   ExitCodeInputError,
			wantStderr: ErrMsgOpenPartialsFailed,
		},
		{
			name:       "unknown sigil",
			args:       []string{"-t", filepath.Join(dir, "unknown.mustache")},
			wantCode:   ExitCodeError,
			wantStderr: ErrMsgRenderFailed,
		},
		{
			name:       "partial without loader",
			args:       []string{"-t", filepath.Join(dir, "page.mustache")},
			wantCode:   ExitCodeError,
			wantStderr: ErrMsgRenderFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(append([]string{CmdNameRender}, tt.args...), "")
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantStderr)
		})
	}
}

func TestLoadData_Empty(t *testing.T) {
	data, err := loadData("", "")
	require.NoError(t, err)
	assert.Empty(t, data)
}
