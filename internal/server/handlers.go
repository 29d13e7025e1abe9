package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/imagecloud/internal/errors"
	"github.com/ironsheep/imagecloud/internal/imaging"
	"github.com/ironsheep/imagecloud/internal/pipeline"
	"github.com/ironsheep/imagecloud/internal/text"
	"github.com/ironsheep/imagecloud/internal/wordcloud"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "imagecloud_render").
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
// Tool execution errors return a JSON-RPC error response with code -32000;
// the data field starts with the error code (INPUT_NOT_FOUND, ...).
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "imagecloud_render":
		return s.handleRender(ctx, args)
	case "imagecloud_mask":
		return s.handleMask(args)
	case "imagecloud_edges":
		return s.handleEdges(args)
	case "imagecloud_words":
		return s.handleWords(args)
	case "imagecloud_image_info":
		return s.handleImageInfo(args)
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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Mask and Edge Handlers ===

// maskArgs mirrors the CLI's image preparation flags. Pointer fields
// distinguish "not given" from zero.
type maskArgs struct {
	Path            string   `json:"path"`
	Downsample      int      `json:"downsample"`
	DetectEdges     *bool    `json:"detect_edges"`
	EdgeStrategy    string   `json:"edge_strategy"`
	EdgeSigma       *float64 `json:"edge_sigma"`
	EdgeThreshold   *float64 `json:"edge_threshold"`
	SmallObjectSize int      `json:"small_object_size"`
}

func (a *maskArgs) applyTo(opts *pipeline.Options) {
	if a.Downsample != 0 {
		opts.Downsample = a.Downsample
	}
	if a.DetectEdges != nil {
		opts.DetectEdges = *a.DetectEdges
	}
	if a.EdgeStrategy != "" {
		opts.EdgeStrategy = a.EdgeStrategy
	}
	if a.EdgeSigma != nil {
		opts.EdgeSigma = *a.EdgeSigma
	}
	if a.EdgeThreshold != nil {
		opts.EdgeThreshold = *a.EdgeThreshold
	}
	opts.SmallObjectSize = a.SmallObjectSize
}

// prepare loads, downsamples and edge-detects the image named by a.
// edges is nil when detection is off.
func (s *Server) prepare(a *maskArgs, forceEdges bool) (*imaging.Grid, *imaging.EdgeMap, pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	a.applyTo(&opts)
	if forceEdges {
		opts.DetectEdges = true
	}

	detector, err := imaging.NewDetector(opts.EdgeStrategy, opts.EdgeSigma, opts.EdgeThreshold, opts.SmallObjectSize)
	if err != nil {
		return nil, nil, opts, err
	}

	grid, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, opts, err
	}
	if grid, err = imaging.Downsample(grid, opts.Downsample); err != nil {
		return nil, nil, opts, err
	}

	var edges *imaging.EdgeMap
	if opts.DetectEdges {
		if edges, err = imaging.Detect(grid, detector); err != nil {
			return nil, nil, opts, err
		}
	}
	return grid, edges, opts, nil
}

type maskResult struct {
	*imaging.EncodedImage
	ExcludedCells int `json:"excluded_cells"`
	TotalCells    int `json:"total_cells"`
}

func (s *Server) handleMask(args json.RawMessage) (interface{}, error) {
	var a maskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, edges, opts, err := s.prepare(&a, false)
	if err != nil {
		return nil, err
	}

	mask, err := imaging.BuildMask(grid, edges, opts.EdgeThreshold)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodeBase64PNG(mask.NRGBA)
	if err != nil {
		return nil, err
	}
	return &maskResult{
		EncodedImage:  encoded,
		ExcludedCells: mask.ExcludedCount(),
		TotalCells:    mask.Width() * mask.Height(),
	}, nil
}

type edgesResult struct {
	*imaging.EncodedImage
	Strategy    string  `json:"strategy"`
	MaxStrength float64 `json:"max_strength"`
}

func (s *Server) handleEdges(args json.RawMessage) (interface{}, error) {
	var a maskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, edges, opts, err := s.prepare(&a, true)
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.EncodeBase64PNG(edges.Image())
	if err != nil {
		return nil, err
	}
	strategy, _ := imaging.ParseStrategy(opts.EdgeStrategy)
	return &edgesResult{
		EncodedImage: encoded,
		Strategy:     strategy,
		MaxStrength:  edges.Max(),
	}, nil
}

// === Text Handlers ===

type wordsArgs struct {
	TextPath       string `json:"text_path"`
	ExtraStopwords string `json:"extra_stopwords"`
	Collocations   *bool  `json:"collocations"`
	Limit          int    `json:"limit"`
	OCRLanguage    string `json:"ocr_language"`
}

type wordsResult struct {
	Distinct  int              `json:"distinct"`
	Stopwords int              `json:"stopwords"`
	Words     []text.Frequency `json:"words"`
}

func (s *Server) handleWords(args json.RawMessage) (interface{}, error) {
	var a wordsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	body, err := text.Load(a.TextPath, a.OCRLanguage)
	if err != nil {
		return nil, err
	}

	stop := text.Stopwords(a.ExtraStopwords)
	opts := text.DefaultFrequencyOptions()
	if a.Collocations != nil {
		opts.Collocations = *a.Collocations
	}
	freqs := text.Frequencies(body, stop, opts)

	result := &wordsResult{Distinct: len(freqs), Stopwords: stop.Len(), Words: freqs}
	if a.Limit > 0 && a.Limit < len(freqs) {
		result.Words = freqs[:a.Limit]
	}
	return result, nil
}

// === Render Handler ===

type renderArgs struct {
	maskArgs
	TextPath        string   `json:"text_path"`
	ImagePath       string   `json:"image_path"`
	OutputPath      string   `json:"output_path"`
	Seed            *int64   `json:"seed"`
	ExtraStopwords  string   `json:"extra_stopwords"`
	MaxFontSize     int      `json:"max_font_size"`
	MaxWords        int      `json:"max_words"`
	RelativeScaling *float64 `json:"relative_scaling"`
	Background      string   `json:"background"`
	FontPath        string   `json:"font_path"`
	Collocations    *bool    `json:"collocations"`
	OCRLanguage     string   `json:"ocr_language"`
}

type renderResult struct {
	OutputPath string           `json:"output_path"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Seed       int64            `json:"seed"`
	Words      []renderedWord   `json:"words"`
	TimingsMS  map[string]int64 `json:"timings_ms"`
}

type renderedWord struct {
	wordcloud.Word
	Color string `json:"color"`
}

func (s *Server) handleRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := pipeline.DefaultOptions()
	a.maskArgs.applyTo(&opts)
	opts.TextPath = a.TextPath
	opts.ImagePath = a.ImagePath
	if a.OutputPath != "" {
		opts.OutputPath = a.OutputPath
	}
	if opts.WritesToStdout() {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "output path %q is reserved for the protocol stream", pipeline.StdoutPath)
	}
	opts.Seed = a.Seed
	opts.ExtraStopwords = a.ExtraStopwords
	opts.MaxFontSize = a.MaxFontSize
	if a.MaxWords != 0 {
		opts.MaxWords = a.MaxWords
	}
	if a.RelativeScaling != nil {
		opts.RelativeScaling = *a.RelativeScaling
	}
	if a.Background != "" {
		opts.Background = a.Background
	}
	opts.FontPath = a.FontPath
	if a.Collocations != nil {
		opts.Collocations = *a.Collocations
	}
	if a.OCRLanguage != "" {
		opts.OCRLanguage = a.OCRLanguage
	}
	opts.Display = false

	res, err := s.runner.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	words := make([]renderedWord, len(res.Cloud.Words))
	for i, w := range res.Cloud.Words {
		words[i] = renderedWord{Word: w, Color: wordcloud.FormatColor(w.Color.Clamped())}
	}
	return &renderResult{
		OutputPath: res.OutputPath,
		Width:      res.Cloud.Width,
		Height:     res.Cloud.Height,
		Seed:       res.Cloud.Seed(),
		Words:      words,
		TimingsMS: map[string]int64{
			"text":    res.Stats.TextTime.Milliseconds(),
			"image":   res.Stats.ImageTime.Milliseconds(),
			"mask":    res.Stats.MaskTime.Milliseconds(),
			"layout":  res.Stats.LayoutTime.Milliseconds(),
			"recolor": res.Stats.RecolorTime.Milliseconds(),
			"write":   res.Stats.WriteTime.Milliseconds(),
			"total":   res.Stats.Total.Milliseconds(),
		},
	}, nil
}

// === Image Information Handler ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}
