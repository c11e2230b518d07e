// Package server implements the MCP (Model Context Protocol) server for the
// Netpbm editor.
//
// The server exposes the editing sessions and the image inspection helpers
// as MCP tools so that Claude and other MCP-compatible clients can load,
// transform and save plain PBM, PGM and PPM images.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr. Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session lifecycle:
//   - netpbm_load: Open a session from one or more files
//   - netpbm_add: Add a file to the active session
//   - netpbm_session_info: Describe the active session
//   - netpbm_list_sessions: List open sessions
//   - netpbm_switch: Activate another session
//   - netpbm_close: Close the active session
//
// Transformation queue:
//   - netpbm_transform: Queue grayscale, monochrome, negative or a rotation
//   - netpbm_rotate: Queue a quarter turn left or right
//   - netpbm_undo: Drop the latest queued transformation
//
// Output:
//   - netpbm_save: Apply the queue and write every image
//   - netpbm_save_as: Write the first image under a new name
//   - netpbm_collage: Join two session images
//   - netpbm_export: Write PNG, JPEG, BMP or TIFF for viewing
//   - netpbm_edges: Write a PBM edge map
//
// Inspection:
//   - netpbm_inspect: Header metadata of a file
//   - netpbm_sample_color, netpbm_sample_colors: Colors at pixels
//   - netpbm_dominant_colors: Color palette
//   - netpbm_preview: Base64 PNG rendering with zoom and grid
//   - netpbm_compare: Pixel difference between two images or regions
//
// Inspection tools read either an image of the active session or a file in
// the workspace. Files are decoded through an in-memory cache keyed by path;
// entries are evicted when a save overwrites them.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The error text
//
// A failed tool never stops the server.
//
// # Usage
//
//	srv := server.New(server.Options{Store: store, Decode: opts})
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
package server
