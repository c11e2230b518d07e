package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"netpbm_load",
		"netpbm_add",
		"netpbm_session_info",
		"netpbm_list_sessions",
		"netpbm_switch",
		"netpbm_close",
		"netpbm_transform",
		"netpbm_rotate",
		"netpbm_undo",
		"netpbm_save",
		"netpbm_save_as",
		"netpbm_collage",
		"netpbm_export",
		"netpbm_edges",
		"netpbm_inspect",
		"netpbm_sample_color",
		"netpbm_sample_colors",
		"netpbm_dominant_colors",
		"netpbm_preview",
		"netpbm_compare",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required argument is declared.
			required, _ := tool.InputSchema["required"].([]string)
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required argument %q has no schema", name)
				}
			}
		})
	}
}

func TestToolDefinitions_SourceArguments(t *testing.T) {
	sourceTools := []string{
		"netpbm_export",
		"netpbm_edges",
		"netpbm_sample_color",
		"netpbm_sample_colors",
		"netpbm_dominant_colors",
		"netpbm_preview",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, name := range sourceTools {
		t.Run(name, func(t *testing.T) {
			props := toolMap[name].InputSchema["properties"].(map[string]interface{})
			for _, arg := range []string{"image", "path", "apply_pending"} {
				if _, ok := props[arg]; !ok {
					t.Errorf("missing %q argument", arg)
				}
			}
		})
	}
}

func TestToolDefinitions_Enums(t *testing.T) {
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	tests := []struct {
		tool string
		arg  string
		want []string
	}{
		{"netpbm_transform", "transformation", []string{"grayscale", "monochrome", "negative", "rotate_left", "rotate_right"}},
		{"netpbm_rotate", "direction", []string{"left", "right"}},
		{"netpbm_collage", "direction", []string{"horizontal", "vertical"}},
		{"netpbm_preview", "quadrant", quadrantNames},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.arg, func(t *testing.T) {
			props := toolMap[tt.tool].InputSchema["properties"].(map[string]interface{})
			arg, ok := props[tt.arg].(map[string]interface{})
			if !ok {
				t.Fatalf("missing %q argument", tt.arg)
			}
			enum, ok := arg["enum"].([]string)
			if !ok {
				t.Fatalf("%q has no enum", tt.arg)
			}
			if len(enum) != len(tt.want) {
				t.Fatalf("enum: got %v, want %v", enum, tt.want)
			}
			for i := range enum {
				if enum[i] != tt.want[i] {
					t.Errorf("enum[%d]: got %s, want %s", i, enum[i], tt.want[i])
				}
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "tools/list"})

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.ID != 7 {
		t.Errorf("ID: got %v, want 7", resp.ID)
	}

	// The catalog must survive JSON encoding as clients see it.
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var decoded struct {
		Result struct {
			Tools []struct {
				Name        string                 `json:"name"`
				InputSchema map[string]interface{} `json:"inputSchema"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(decoded.Result.Tools) != len(GetToolDefinitions()) {
		t.Errorf("tools: got %d, want %d", len(decoded.Result.Tools), len(GetToolDefinitions()))
	}
}
