package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bl-extractor/internal/parser"
)

// execute runs the root command with args and stdin, returning stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Setenv("BLX_CLI_SERVER_URL", "")
	t.Setenv("BLX_CLI_FORMAT", "")
	t.Setenv("BLX_CLI_QUIET", "")

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		for _, name := range []string{"format", "quiet", "server", "no-color"} {
			rootCmd.PersistentFlags().Lookup(name).Changed = false
		}
		format, quiet, serverURL = "", false, ""
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExtractCommand_JSONFromStdin(t *testing.T) {
	out, err := execute(t, "BILL OF LADING\nB/L NO: MEDU1234567\nVESSEL: MSC OSCAR\n", "extract", "--format", "json", "-")
	require.NoError(t, err)

	var result parser.ExtractionResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "MEDU1234567", result.BLNumber)
	assert.Equal(t, "MSC OSCAR", result.Vessel)
}

func TestExtractCommand_QuietFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bl.txt")
	require.NoError(t, os.WriteFile(path, []byte("b/l no: hlcu123456789"), 0644))

	out, err := execute(t, "", "extract", "--quiet", path)
	require.NoError(t, err)
	assert.Equal(t, "HLCU123456789\n", out)
}

func TestExtractCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "", "extract", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestExplainCommand_Table(t *testing.T) {
	out, err := execute(t, "B/L NO: MEDU1234567", "explain", "--format", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "accepted MEDU1234567")
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "explicit")
}

func TestExplainCommand_JSON(t *testing.T) {
	out, err := execute(t, "nothing to see here", "explain", "--format", "json")
	require.NoError(t, err)

	var decision map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decision))
	assert.Equal(t, false, decision["accepted"])
	assert.Equal(t, parser.DecisionNoCandidates, decision["reason"])
}

func TestParseCommand_TextThroughServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health":
			w.Write([]byte(`{"status":"healthy"}`))
		case "/api/v1/parse/text":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "B/L NO: MEDU1234567", body["text"])
			assert.Equal(t, "bill_of_lading", body["hint"])
			w.Write([]byte(`{"extraction_id":3,"document_type":"BL","fields":[{"key":"bl_number","value":"MEDU1234567","confidence":0.8}],"confidence":0.8}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "bl.txt")
	require.NoError(t, os.WriteFile(path, []byte("B/L NO: MEDU1234567"), 0644))

	out, err := execute(t, "", "parse", "--server", server.URL, "--file", path, "--hint", "bill_of_lading", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "MEDU1234567")
	parseFile, parseHint = "", ""
}

func TestParseCommand_RequiresSource(t *testing.T) {
	_, err := execute(t, "", "parse")
	assert.Error(t, err)
}

func TestValidateAndParseID(t *testing.T) {
	id, err := validateAndParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", " ", "abc", "0", "-1"} {
		_, err := validateAndParseID(bad)
		assert.Error(t, err, bad)
	}
}
