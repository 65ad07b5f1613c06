package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/strindex/internal/config"
	"github.com/hpungsan/strindex/internal/db"
	"github.com/hpungsan/strindex/internal/errors"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	cleanup := func() {
		database.Close()
	}

	return database, cfg, cleanup
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func analyze(t *testing.T, h *Handlers, value string) map[string]any {
	t.Helper()
	result, err := h.HandleAnalyze(context.Background(), makeRequest(map[string]any{"value": value}))
	if err != nil {
		t.Fatalf("HandleAnalyze: %v", err)
	}
	return parseOutput(t, result)
}

func TestHandleAnalyze(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()
	h := NewHandlers(database, cfg)

	out := analyze(t, h, "Step on no pets")
	if out["outcome"] != "created" {
		t.Errorf("outcome = %v, want created", out["outcome"])
	}
	record := out["record"].(map[string]any)
	props := record["properties"].(map[string]any)
	if props["is_palindrome"] != true {
		t.Error("expected is_palindrome=true")
	}
	if props["word_count"] != float64(4) {
		t.Errorf("word_count = %v, want 4", props["word_count"])
	}

	again := analyze(t, h, "Step on no pets")
	if again["outcome"] != "conflict" {
		t.Errorf("outcome = %v, want conflict", again["outcome"])
	}
	if again["record"].(map[string]any)["created_at"] != record["created_at"] {
		t.Error("conflict should return the originally stored record")
	}
}

func TestHandleAnalyze_InvalidValues(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()
	h := NewHandlers(database, cfg)

	tests := []struct {
		name string
		args map[string]any
		code string
	}{
		{"missing", map[string]any{}, "INVALID_REQUEST"},
		{"blank", map[string]any{"value": "  "}, "INVALID_REQUEST"},
		{"number", map[string]any{"value": 12}, "UNPROCESSABLE_TYPE"},
		{"array", map[string]any{"value": []any{"a"}}, "UNPROCESSABLE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleAnalyze(context.Background(), makeRequest(tt.args))
			if err != nil {
				t.Fatalf("HandleAnalyze: %v", err)
			}
			assertErrorCode(t, result, tt.code)
		})
	}
}

func TestHandleGet(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()
	h := NewHandlers(database, cfg)

	analyze(t, h, "stored")

	result, err := h.HandleGet(context.Background(), makeRequest(map[string]any{"value": "stored"}))
	if err != nil {
		t.Fatalf("HandleGet: %v", err)
	}
	out := parseOutput(t, result)
	if out["value"] != "stored" {
		t.Errorf("value = %v, want stored", out["value"])
	}

	result, _ = h.HandleGet(context.Background(), makeRequest(map[string]any{"value": "Stored"}))
	assertErrorCode(t, result, "NOT_FOUND")

	result, _ = h.HandleGet(context.Background(), makeRequest(map[string]any{"value": 3}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleList(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()
	h := NewHandlers(database, cfg)

	for _, v := range []string{"madam", "hello", "a man a plan"} {
		analyze(t, h, v)
	}

	result, err := h.HandleList(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleList: %v", err)
	}
	out := parseOutput(t, result)
	if out["count"] != float64(3) {
		t.Errorf("count = %v, want 3", out["count"])
	}
	data := out["data"].([]any)
	if first := data[0].(map[string]any)["value"]; first != "a man a plan" {
		t.Errorf("first = %v, want newest first", first)
	}

	result, _ = h.HandleList(context.Background(), makeRequest(map[string]any{
		"is_palindrome": true,
		"max_length":    5,
	}))
	out = parseOutput(t, result)
	if out["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", out["count"])
	}
	applied := out["filters_applied"].(map[string]any)
	if applied["is_palindrome"] != true || applied["max_length"] != float64(5) {
		t.Errorf("filters_applied = %v", applied)
	}

	result, _ = h.HandleList(context.Background(), makeRequest(map[string]any{"min_length": 9, "max_length": 1}))
	assertErrorCode(t, result, "CONFLICTING_FILTER")

	result, _ = h.HandleList(context.Background(), makeRequest(map[string]any{"min_length": 1.5}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	result, _ = h.HandleList(context.Background(), makeRequest(map[string]any{"is_palindrome": "yes"}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleQuery(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()
	h := NewHandlers(database, cfg)

	for _, v := range []string{"short", "considerably longer"} {
		analyze(t, h, v)
	}

	result, err := h.HandleQuery(context.Background(), makeRequest(map[string]any{
		"query": "strings longer than 10 characters",
	}))
	if err != nil {
		t.Fatalf("HandleQuery: %v", err)
	}
	out := parseOutput(t, result)
	if out["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", out["count"])
	}
	interp := out["interpreted_query"].(map[string]any)
	parsed := interp["parsed_filters"].(map[string]any)
	if parsed["min_length"] != float64(11) {
		t.Errorf("min_length = %v, want 11", parsed["min_length"])
	}

	result, _ = h.HandleQuery(context.Background(), makeRequest(map[string]any{"query": "tell me a joke"}))
	assertErrorCode(t, result, "UNPARSEABLE_QUERY")

	result, _ = h.HandleQuery(context.Background(), makeRequest(map[string]any{}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleDelete(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()
	h := NewHandlers(database, cfg)

	analyze(t, h, "temporary")

	result, err := h.HandleDelete(context.Background(), makeRequest(map[string]any{"value": "temporary"}))
	if err != nil {
		t.Fatalf("HandleDelete: %v", err)
	}
	out := parseOutput(t, result)
	if out["deleted"] != true {
		t.Error("expected deleted=true")
	}

	result, _ = h.HandleDelete(context.Background(), makeRequest(map[string]any{"value": "temporary"}))
	out = parseOutput(t, result)
	if out["deleted"] != false {
		t.Error("expected deleted=false on second delete")
	}

	result, _ = h.HandleGet(context.Background(), makeRequest(map[string]any{"value": "temporary"}))
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleExportImport(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()
	h := NewHandlers(database, cfg)

	for _, v := range []string{"rotor", "stats", "plain"} {
		analyze(t, h, v)
	}

	exportPath := filepath.Join(t.TempDir(), "palindromes.jsonl")
	result, err := h.HandleExport(context.Background(), makeRequest(map[string]any{
		"path":          exportPath,
		"is_palindrome": true,
	}))
	if err != nil {
		t.Fatalf("HandleExport: %v", err)
	}
	out := parseOutput(t, result)
	if out["count"] != float64(2) {
		t.Fatalf("exported count = %v, want 2", out["count"])
	}

	target, _, cleanupTarget := testSetup(t)
	defer cleanupTarget()
	h2 := NewHandlers(target, cfg)

	result, err = h2.HandleImport(context.Background(), makeRequest(map[string]any{"path": exportPath}))
	if err != nil {
		t.Fatalf("HandleImport: %v", err)
	}
	out = parseOutput(t, result)
	if out["imported"] != float64(2) || out["skipped"] != float64(0) {
		t.Errorf("import = %v, want 2 imported, 0 skipped", out)
	}

	result, _ = h2.HandleImport(context.Background(), makeRequest(map[string]any{"path": exportPath}))
	out = parseOutput(t, result)
	if out["imported"] != float64(0) || out["skipped"] != float64(2) {
		t.Errorf("re-import = %v, want 0 imported, 2 skipped", out)
	}

	result, _ = h2.HandleImport(context.Background(), makeRequest(map[string]any{}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	result, _ = h2.HandleImport(context.Background(), makeRequest(map[string]any{
		"path": filepath.Join(t.TempDir(), "missing.jsonl"),
	}))
	assertErrorCode(t, result, "FILE_NOT_FOUND")
}

func TestHandleExport_RejectsBadPath(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()
	h := NewHandlers(database, cfg)

	result, _ := h.HandleExport(context.Background(), makeRequest(map[string]any{
		"path": filepath.Join(t.TempDir(), "out.json"),
	}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleAnalyze_CancelledContext(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()
	h := NewHandlers(database, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.HandleAnalyze(ctx, makeRequest(map[string]any{"value": "late"}))
	if err != nil {
		t.Fatalf("HandleAnalyze: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result for a cancelled context")
	}
}

func TestServerRegistration(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	s := NewServer(database, cfg, "test")
	tools := s.ListTools()

	expectedTools := []string{
		"strings_analyze",
		"strings_get",
		"strings_list",
		"strings_query",
		"strings_delete",
		"strings_export",
		"strings_import",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}
	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTools = []string{"strings_delete", "strings_import", "strings_delete", "not_a_tool"}
	s := NewServer(database, cfg, "test")
	tools := s.ListTools()

	if len(tools) != 5 {
		t.Errorf("registered tool count = %d, want 5", len(tools))
	}
	for _, name := range []string{"strings_delete", "strings_import"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
	if _, ok := tools["strings_analyze"]; !ok {
		t.Error("strings_analyze should be registered")
	}
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTools = AllToolNames()
	s := NewServer(database, cfg, "test")

	if tools := s.ListTools(); len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (all disabled)", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{"all valid", []string{"strings_delete", "strings_import"}, 0},
		{"one unknown", []string{"strings_delete", "fake_tool"}, 1},
		{"all unknown", []string{"foo", "bar", "baz"}, 3},
		{"empty list", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unknown := ValidateDisabledTools(tt.input)
			if len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 7 {
		t.Errorf("AllToolNames() returned %d names, want 7", len(names))
	}
	if names[0] != "strings_analyze" {
		t.Errorf("AllToolNames()[0] = %q, want sorted order", names[0])
	}
	if unknown := ValidateDisabledTools(names); len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	errObj := errorObject(t, r)
	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_PlainErrorBecomesInternal(t *testing.T) {
	r := errorResult(fmt.Errorf("boom"))

	errObj := errorObject(t, r)
	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if errObj["status"] != float64(500) {
		t.Errorf("status=%v, want 500", errObj["status"])
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	r := errorResult(errors.NewNotFound("abc"))

	errObj := errorObject(t, r)
	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	details, ok := errObj["details"].(map[string]any)
	if !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
	if details["value"] != "abc" {
		t.Errorf("details.value = %v, want abc", details["value"])
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func errorObject(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(extractErrorMessage(result)), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatal("no error object in payload")
	}
	return errObj
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()
	if !result.IsError {
		t.Errorf("expected error %s, got success: %s", expectedCode, extractErrorMessage(result))
		return
	}
	if code := errorObject(t, result)["code"]; code != expectedCode {
		t.Errorf("got error code %v, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
