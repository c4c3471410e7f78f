package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/symcore"
	"github.com/njchilds90/symcore/internal/cli"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestCall_Stdin(t *testing.T) {
	out, err := run(t, `{"tool":"mul","params":{"factors":["x",2,3]}}`, "call", "--log-level", "error")
	require.NoError(t, err)
	var resp symcore.ToolResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "6*x", resp.String)
}

func TestCall_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tool":"free_symbols","params":{"expr":"y"}}`), 0o600))
	out, err := run(t, "", "call", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"y"`)
}

func TestCall_YAMLOutput(t *testing.T) {
	out, err := run(t, `{"tool":"render","params":{"expr":"x"}}`, "-o", "yaml", "call")
	require.NoError(t, err)
	var resp map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "x", resp["string"])
}

func TestCall_ToolErrorFails(t *testing.T) {
	out, err := run(t, `{"tool":"nope"}`, "call")
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(symcore.CodeUnknownTool))
	assert.Contains(t, out, "UNKNOWN_TOOL")
}

func TestCall_RejectsUnknownFields(t *testing.T) {
	_, err := run(t, `{"tool":"mul","argz":{}}`, "call")
	assert.ErrorContains(t, err, "invalid tool request")
}

func TestTools(t *testing.T) {
	out, err := run(t, "", "tools")
	require.NoError(t, err)
	assert.JSONEq(t, symcore.ToolSpec(), out)
}

func TestRender(t *testing.T) {
	e := symcore.MulOf(symcore.N(-2), symcore.S("x"))
	js, err := symcore.ToJSON(e)
	require.NoError(t, err)

	out, err := run(t, js, "render")
	require.NoError(t, err)
	assert.Equal(t, "-2*x\n", out)

	out, err = run(t, js, "render", "--latex")
	require.NoError(t, err)
	assert.Equal(t, "-2 x\n", out)
}

func TestRootFlagValidation(t *testing.T) {
	_, err := run(t, "", "-o", "xml", "tools")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = run(t, "", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "tools")
	assert.ErrorContains(t, err, "config")
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, cli.Print(&buf, "yaml", symcore.ToolResponse{String: "x", Code: symcore.CodeInvalidRequest}))
	assert.Equal(t, "code: INVALID_REQUEST\nstring: x\n", buf.String())
}
