package mcp

import (
	"encoding/json"
	"fmt"

	mcplib "github.com/modelcontextprotocol/go-sdk/mcp"
)

// arguments is the decoded tool argument object. The go-sdk hands tool
// handlers raw JSON.
type arguments map[string]any

func parseArgs(raw json.RawMessage) arguments {
	if len(raw) == 0 {
		return nil
	}
	var m arguments
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// String returns the string value at key, or def when absent or mistyped.
func (a arguments) String(key, def string) string {
	if s, ok := a[key].(string); ok {
		return s
	}
	return def
}

// Int returns the numeric value at key truncated to int, or def.
func (a arguments) Int(key string, def int) int {
	if f, ok := a[key].(float64); ok {
		return int(f)
	}
	return def
}

// Bool returns the boolean value at key, or false.
func (a arguments) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{&mcplib.TextContent{Text: text}},
	}
}

func jsonResult(v any) *mcplib.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("encoding result: %v", err)
	}
	return textResult(string(data))
}

func errorResult(format string, a ...any) *mcplib.CallToolResult {
	var r mcplib.CallToolResult
	r.SetError(fmt.Errorf(format, a...))
	return &r
}
