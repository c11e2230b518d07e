package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var transformationNames = []string{"grayscale", "monochrome", "negative", "rotate_left", "rotate_right"}

var quadrantNames = []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"}

func noArgsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func regionSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// withSource adds the image/path/apply_pending properties shared by the
// inspection tools.
func withSource(props map[string]interface{}) map[string]interface{} {
	props["image"] = map[string]interface{}{
		"type":        "string",
		"description": "Name of an image in the active session. Use either image or path.",
	}
	props["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Netpbm file to read from the workspace; resolved like netpbm_load. Use either image or path.",
	}
	props["apply_pending"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Render a session image with its queued transformations applied. The session is not changed.",
		"default":     false,
	}
	return props
}

// sourceSchema describes a nested image source for tools reading two images.
func sourceSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties":  withSource(map[string]interface{}{}),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session lifecycle
		{
			Name:        "netpbm_load",
			Description: "Load one or more plain PBM (P1), PGM (P2) or PPM (P3) files into a new session, which becomes the active session. Files that fail to load are reported; the session is created if at least one file loads.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"files": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "File names or paths. Bare names are looked up in the workspace search directories, with or without extension, ignoring case.",
					},
				},
				"required": []string{"files"},
			},
		},
		{
			Name:        "netpbm_add",
			Description: "Load one more file into the active session. A file whose name is already in the session is rejected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file": map[string]interface{}{
						"type":        "string",
						"description": "File name or path",
					},
				},
				"required": []string{"file"},
			},
		},
		{
			Name:        "netpbm_session_info",
			Description: "Describe the active session: its id, images with format and dimensions, and the pending transformations.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "netpbm_list_sessions",
			Description: "List every open session in id order and report which one is active.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "netpbm_switch",
			Description: "Make another open session the active session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": map[string]interface{}{
						"type":        "integer",
						"description": "Id of the session to activate",
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "netpbm_close",
			Description: "Close the active session, discarding unsaved changes. The remaining session with the lowest id becomes active.",
			InputSchema: noArgsSchema(),
		},

		// Transformation queue
		{
			Name:        "netpbm_transform",
			Description: "Queue a transformation on the active session. Nothing changes until netpbm_save; netpbm_undo removes the latest queued transformation.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"transformation": map[string]interface{}{
						"type":        "string",
						"enum":        transformationNames,
						"description": "grayscale averages the channels of PPM images; monochrome thresholds at half the max value; negative inverts every sample; rotations turn the image a quarter.",
					},
				},
				"required": []string{"transformation"},
			},
		},
		{
			Name:        "netpbm_rotate",
			Description: "Queue a quarter-turn rotation on the active session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"left", "right"},
						"description": "left is counterclockwise, right is clockwise",
					},
				},
				"required": []string{"direction"},
			},
		},
		{
			Name:        "netpbm_undo",
			Description: "Remove the most recently queued transformation of the active session.",
			InputSchema: noArgsSchema(),
		},

		// Output
		{
			Name:        "netpbm_save",
			Description: "Apply the queued transformations, in order, to every image of the active session and write each image under its name to the output directory. The queue is cleared.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "netpbm_save_as",
			Description: "Write the first image of the active session, with the queued transformations applied, under a new name. The session and its queue are not changed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output file name; its extension must match the image format (.pbm, .pgm or .ppm)",
					},
				},
				"required": []string{"output"},
			},
		},
		{
			Name:        "netpbm_collage",
			Description: "Join two images of the active session side by side (horizontal) or stacked (vertical) and add the result to the session. Both images must share a format; heights must match for horizontal and widths for vertical.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"direction": map[string]interface{}{
						"type": "string",
						"enum": []string{"horizontal", "vertical"},
					},
					"first": map[string]interface{}{
						"type":        "string",
						"description": "Name of the left or top image",
					},
					"second": map[string]interface{}{
						"type":        "string",
						"description": "Name of the right or bottom image",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Name of the new image; its extension must match the format",
					},
				},
				"required": []string{"direction", "first", "second", "output"},
			},
		},
		{
			Name:        "netpbm_export",
			Description: "Write an image as PNG, JPEG, BMP or TIFF to the output directory for viewing. The Netpbm source is not changed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSource(map[string]interface{}{
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output file name ending in .png, .jpg, .jpeg, .bmp, .tif or .tiff",
					},
				}),
				"required": []string{"output"},
			},
		},
		{
			Name:        "netpbm_edges",
			Description: "Trace the outlines of an image with Canny edge detection and write them to the output directory as a plain PBM bitmap, edges black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSource(map[string]interface{}{
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Bitmap file name ending in .pbm. Default <name>_edges.pbm",
					},
					"low": map[string]interface{}{
						"type":        "integer",
						"description": "Gradient magnitude below which a pixel is never an edge (0-255). Default 50",
						"default":     50,
					},
					"high": map[string]interface{}{
						"type":        "integer",
						"description": "Gradient magnitude at which a pixel is always an edge (0-255). Default 150",
						"default":     150,
					},
				}),
			},
		},

		// Inspection
		{
			Name:        "netpbm_inspect",
			Description: "Read a Netpbm file's header and report its format, dimensions, max value, color depth and file size without loading it into a session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "File name or path",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "netpbm_sample_color",
			Description: "Get the raw samples and the 8-bit RGB, hex and HSL color at a pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSource(map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				}),
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "netpbm_sample_colors",
			Description: "Sample colors at several labeled points in one call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSource(map[string]interface{}{
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
					},
				}),
				"required": []string{"points"},
			},
		},
		{
			Name:        "netpbm_dominant_colors",
			Description: "List the most frequent colors of an image or region, quantized to 16 levels per channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSource(map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": regionSchema("Optional region to analyze; defaults to the whole image"),
				}),
			},
		},
		{
			Name:        "netpbm_preview",
			Description: "Render an image, or part of it, as a base64-encoded PNG. Small Netpbm images can be enlarged with an integer scale; an optional grid labels source pixel coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSource(map[string]interface{}{
					"region": regionSchema("Optional region to render"),
					"quadrant": map[string]interface{}{
						"type":        "string",
						"enum":        quadrantNames,
						"description": "Named region to render instead of explicit coordinates",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer zoom factor using nearest-neighbor sampling. Default 1",
						"default":     1,
					},
					"grid": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"spacing": map[string]interface{}{
								"type":        "integer",
								"description": "Distance between grid lines in source pixels",
							},
							"color": map[string]interface{}{
								"type":        "string",
								"description": "Hex line color. Default #ff0000",
							},
							"show_coordinates": map[string]interface{}{
								"type":        "boolean",
								"description": "Label intersections with their x,y coordinates",
							},
						},
						"required": []string{"spacing"},
					},
				}),
			},
		},
		{
			Name:        "netpbm_compare",
			Description: "Compare two images, or a region of each, by display color. Useful to check what the pending transformations change: compare a session image with itself using apply_pending on one side.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"first":         sourceSchema("First image"),
					"second":        sourceSchema("Second image"),
					"first_region":  regionSchema("Optional region of the first image"),
					"second_region": regionSchema("Optional region of the second image"),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Mean channel difference (0-255) above which pixels count as different. Default 10",
						"default":     10,
					},
				},
				"required": []string{"first", "second"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
