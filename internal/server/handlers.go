package server

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"runtime/debug"
	"strings"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
	"github.com/ironsheep/netpbm-tools-mcp/internal/imaging"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
	"github.com/ironsheep/netpbm-tools-mcp/internal/session"
	"github.com/ironsheep/netpbm-tools-mcp/internal/transform"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "netpbm_load", "netpbm_preview").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.callTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "kind", apperrors.KindOf(err), "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// callTool runs executeTool, turning a panic into an error so that one bad
// request cannot stop the server.
func (s *Server) callTool(name string, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("tool panicked", "tool", name, "panic", r, "stack", string(debug.Stack()))
			result, err = nil, fmt.Errorf("internal error in %s: %v", name, r)
		}
	}()
	return s.executeTool(name, args)
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Session tools act on the active session. Inspection tools read either an
// image of the active session ("image") or a file in the workspace ("path").
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session lifecycle
	case "netpbm_load":
		return s.handleLoad(args)
	case "netpbm_add":
		return s.handleAdd(args)
	case "netpbm_session_info":
		return s.sessions.Info()
	case "netpbm_list_sessions":
		return s.handleListSessions()
	case "netpbm_switch":
		return s.handleSwitch(args)
	case "netpbm_close":
		return s.handleClose()

	// Transformation queue
	case "netpbm_transform":
		return s.handleTransform(args)
	case "netpbm_rotate":
		return s.handleRotate(args)
	case "netpbm_undo":
		return s.handleUndo()

	// Output
	case "netpbm_save":
		return s.handleSave()
	case "netpbm_save_as":
		return s.handleSaveAs(args)
	case "netpbm_collage":
		return s.handleCollage(args)
	case "netpbm_export":
		return s.handleExport(args)
	case "netpbm_edges":
		return s.handleEdges(args)

	// Inspection
	case "netpbm_inspect":
		return s.handleInspect(args)
	case "netpbm_sample_color":
		return s.handleSampleColor(args)
	case "netpbm_sample_colors":
		return s.handleSampleColors(args)
	case "netpbm_dominant_colors":
		return s.handleDominantColors(args)
	case "netpbm_preview":
		return s.handlePreview(args)
	case "netpbm_compare":
		return s.handleCompare(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Tools without required arguments
// accept an absent arguments object.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Session Lifecycle Handlers ===

type loadArgs struct {
	Files []string `json:"files"`
}

type failedFile struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type loadResult struct {
	SessionID int          `json:"session_id"`
	Loaded    []string     `json:"loaded"`
	Failed    []failedFile `json:"failed,omitempty"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	res, err := s.sessions.Load(a.Files...)
	if err != nil {
		return nil, err
	}

	out := &loadResult{SessionID: res.SessionID, Loaded: res.Loaded}
	for _, d := range res.Failed {
		out.Failed = append(out.Failed, failedFile{Name: d.Name, Error: d.Err.Error()})
	}
	return out, nil
}

type addArgs struct {
	File string `json:"file"`
}

func (s *Server) handleAdd(args json.RawMessage) (interface{}, error) {
	var a addArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.sessions.Add(a.File)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"session_id": s.sessions.ActiveID(),
		"image":      imaging.DescribeImage(img),
		"name":       img.Name,
	}, nil
}

type listSessionsResult struct {
	Active   int               `json:"active"`
	Sessions []session.Summary `json:"sessions"`
}

func (s *Server) handleListSessions() (interface{}, error) {
	return &listSessionsResult{
		Active:   s.sessions.ActiveID(),
		Sessions: s.sessions.Sessions(),
	}, nil
}

type switchArgs struct {
	SessionID int `json:"session_id"`
}

func (s *Server) handleSwitch(args json.RawMessage) (interface{}, error) {
	var a switchArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if _, err := s.sessions.Switch(a.SessionID); err != nil {
		return nil, err
	}
	return s.sessions.Info()
}

func (s *Server) handleClose() (interface{}, error) {
	closed, next, err := s.sessions.Close()
	if err != nil {
		return nil, err
	}
	return map[string]int{"closed": closed, "active": next}, nil
}

// === Transformation Queue Handlers ===

type queueResult struct {
	SessionID int      `json:"session_id"`
	Queued    string   `json:"queued,omitempty"`
	Undone    string   `json:"undone,omitempty"`
	Pending   []string `json:"pending"`
}

func (s *Server) queueResult() (*queueResult, error) {
	active, err := s.sessions.Active()
	if err != nil {
		return nil, err
	}
	res := &queueResult{SessionID: active.ID(), Pending: []string{}}
	for _, k := range active.Pending() {
		res.Pending = append(res.Pending, k.String())
	}
	return res, nil
}

type transformArgs struct {
	Transformation string `json:"transformation"`
}

func (s *Server) handleTransform(args json.RawMessage) (interface{}, error) {
	var a transformArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.enqueue(a.Transformation)
}

type rotateArgs struct {
	Direction string `json:"direction"`
}

func (s *Server) handleRotate(args json.RawMessage) (interface{}, error) {
	var a rotateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.enqueue("rotate_" + a.Direction)
}

func (s *Server) enqueue(token string) (interface{}, error) {
	kind, err := s.sessions.Enqueue(token)
	if err != nil {
		return nil, err
	}
	res, err := s.queueResult()
	if err != nil {
		return nil, err
	}
	res.Queued = kind.String()
	return res, nil
}

func (s *Server) handleUndo() (interface{}, error) {
	kind, err := s.sessions.Undo()
	if err != nil {
		return nil, err
	}
	res, err := s.queueResult()
	if err != nil {
		return nil, err
	}
	res.Undone = kind.String()
	return res, nil
}

// === Output Handlers ===

type saveResult struct {
	SessionID int      `json:"session_id"`
	Paths     []string `json:"paths"`
	Applied   []string `json:"applied"`
	Notices   []string `json:"notices,omitempty"`
}

func (s *Server) handleSave() (interface{}, error) {
	id := s.sessions.ActiveID()
	res, err := s.sessions.Save()
	if res != nil {
		for _, p := range res.Paths {
			s.cache.Evict(p)
		}
	}
	if err != nil {
		return nil, err
	}
	return &saveResult{SessionID: id, Paths: res.Paths, Applied: res.Applied, Notices: res.Notices}, nil
}

type saveAsArgs struct {
	Output string `json:"output"`
}

func (s *Server) handleSaveAs(args json.RawMessage) (interface{}, error) {
	var a saveAsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	path, err := s.sessions.SaveAs(a.Output)
	if err != nil {
		return nil, err
	}
	s.cache.Evict(path)
	return map[string]string{"path": path}, nil
}

type collageArgs struct {
	Direction string `json:"direction"`
	First     string `json:"first"`
	Second    string `json:"second"`
	Output    string `json:"output"`
}

func (s *Server) handleCollage(args json.RawMessage) (interface{}, error) {
	var a collageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.sessions.Collage(a.Direction, a.First, a.Second, a.Output)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"session_id": s.sessions.ActiveID(),
		"name":       img.Name,
		"image":      imaging.DescribeImage(img),
	}, nil
}

// sourceArgs names the image an inspection tool reads. Exactly one of Image
// (an image of the active session) and Path (a file in the workspace) is
// set. ApplyPending renders a session image with its queued transformations
// applied, without changing the session.
type sourceArgs struct {
	Image        string `json:"image,omitempty"`
	Path         string `json:"path,omitempty"`
	ApplyPending bool   `json:"apply_pending,omitempty"`
}

func (s *Server) source(a sourceArgs) (*netpbm.Image, error) {
	switch {
	case a.Image != "" && a.Path != "":
		return nil, fmt.Errorf("set either image or path, not both")
	case a.Image != "":
		active, err := s.sessions.Active()
		if err != nil {
			return nil, err
		}
		img := active.Image(a.Image)
		if img == nil {
			return nil, apperrors.New(apperrors.NotFound, "image not found in session: %s", a.Image)
		}
		if !a.ApplyPending {
			return img, nil
		}
		out, _, err := transform.ApplyAll(img, active.Pending())
		return out, err
	case a.Path != "":
		if a.ApplyPending {
			return nil, fmt.Errorf("apply_pending requires a session image")
		}
		path, err := s.store.Resolve(a.Path)
		if err != nil {
			return nil, err
		}
		return s.cache.Load(path)
	default:
		return nil, fmt.Errorf("either image or path is required")
	}
}

type exportArgs struct {
	sourceArgs
	Output string `json:"output"`
}

type exportResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleExport(args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := imaging.CheckExportName(a.Output); err != nil {
		return nil, apperrors.Wrap(apperrors.UnsupportedFormat, err, "cannot export %s", a.Output)
	}
	img, err := s.source(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	path, err := s.store.Writer().Create(a.Output, func(w io.Writer) error {
		return imaging.Export(w, img, a.Output, s.jpegQuality)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("image exported", "image", img.Name, "path", path)
	return &exportResult{Path: path, Format: img.Format.String(), Width: img.Width, Height: img.Height}, nil
}

type edgesArgs struct {
	sourceArgs
	Output string `json:"output,omitempty"`
	Low    *int   `json:"low,omitempty"`
	High   *int   `json:"high,omitempty"`
}

type edgesResult struct {
	Path string `json:"path"`
	*imaging.EdgeMapResult
}

func (s *Server) handleEdges(args json.RawMessage) (interface{}, error) {
	var a edgesArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.source(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	low, high := imaging.DefaultEdgeLow, imaging.DefaultEdgeHigh
	if a.Low != nil {
		low = *a.Low
	}
	if a.High != nil {
		high = *a.High
	}
	if a.Output == "" {
		base := filepath.Base(img.Name)
		a.Output = strings.TrimSuffix(base, filepath.Ext(base)) + "_edges.pbm"
	}

	res, err := imaging.EdgeMap(img, a.Output, low, high)
	if err != nil {
		return nil, fmt.Errorf("cannot trace edges of %s: %w", img.Name, err)
	}
	path, err := s.store.Save(res.Image)
	if err != nil {
		return nil, err
	}
	s.cache.Evict(path)
	s.log.Info("edge map written", "image", img.Name, "path", path, "edge_pixels", res.EdgePixels)
	return &edgesResult{Path: path, EdgeMapResult: res}, nil
}

// === Inspection Handlers ===

type inspectArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleInspect(args json.RawMessage) (interface{}, error) {
	var a inspectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	path, err := s.store.Resolve(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.LoadInfo(s.cache, path)
}

type sampleColorArgs struct {
	sourceArgs
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.source(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type sampleColorsArgs struct {
	sourceArgs
	Points []imaging.LabeledPoint `json:"points"`
}

func (s *Server) handleSampleColors(args json.RawMessage) (interface{}, error) {
	var a sampleColorsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.source(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColorsMulti(img, a.Points)
}

type dominantColorsArgs struct {
	sourceArgs
	Count  int             `json:"count"`
	Region *imaging.Region `json:"region,omitempty"`
}

func (s *Server) handleDominantColors(args json.RawMessage) (interface{}, error) {
	var a dominantColorsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.source(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(img, a.Count, a.Region)
}

type previewArgs struct {
	sourceArgs
	Region   *imaging.Region      `json:"region,omitempty"`
	Quadrant string               `json:"quadrant,omitempty"`
	Scale    int                  `json:"scale"`
	Grid     *imaging.GridOptions `json:"grid,omitempty"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Region != nil && a.Quadrant != "" {
		return nil, fmt.Errorf("set either region or quadrant, not both")
	}
	img, err := s.source(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	opts := imaging.PreviewOptions{Region: a.Region, Scale: a.Scale, Grid: a.Grid}
	if a.Quadrant != "" {
		if opts.Region, err = imaging.QuadrantRegion(img, a.Quadrant); err != nil {
			return nil, err
		}
	}
	return imaging.Preview(img, opts)
}

type compareArgs struct {
	First        sourceArgs      `json:"first"`
	Second       sourceArgs      `json:"second"`
	FirstRegion  *imaging.Region `json:"first_region,omitempty"`
	SecondRegion *imaging.Region `json:"second_region,omitempty"`
	Threshold    *int            `json:"threshold,omitempty"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	first, err := s.source(a.First)
	if err != nil {
		return nil, fmt.Errorf("first: %w", err)
	}
	second, err := s.source(a.Second)
	if err != nil {
		return nil, fmt.Errorf("second: %w", err)
	}

	threshold := imaging.DefaultCompareThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	return imaging.Compare(first, second, a.FirstRegion, a.SecondRegion, threshold)
}
