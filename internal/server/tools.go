package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func numberProp(description string, def float64) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": description, "default": def}
}

func booleanProp(description string, def bool) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description, "default": def}
}

// maskProperties are shared by the mask and edge tools.
func maskProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":              stringProp("Absolute path to the source image (RGB or RGBA)"),
		"downsample":        integerProp("Keep every n-th row and column. Default 1"),
		"detect_edges":      booleanProp("Exclude detected edges from the mask", true),
		"edge_strategy":     map[string]interface{}{"type": "string", "enum": []string{"gradient", "thresholded"}, "description": "Edge detection algorithm. Default thresholded"},
		"edge_sigma":        numberProp("Gaussian smoothing width", 2.0),
		"edge_threshold":    numberProp("Edge strength above which a pixel is excluded", 0.08),
		"small_object_size": integerProp("Drop connected edge regions smaller than this many pixels (thresholded only)"),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	renderProps := maskProperties()
	delete(renderProps, "path")
	renderProps["text_path"] = stringProp("Absolute path to the text, or to an image to read by OCR")
	renderProps["image_path"] = stringProp("Absolute path to the mask and color image")
	renderProps["output_path"] = stringProp("Where to write the PNG. Default output/imagecloud.png")
	renderProps["seed"] = integerProp("Random seed; the same seed gives the same image")
	renderProps["extra_stopwords"] = stringProp("Comma-separated words to leave out")
	renderProps["max_font_size"] = integerProp("Largest font size in pixels. Default derived from the canvas")
	renderProps["max_words"] = integerProp("Maximum number of words. Default 200")
	renderProps["relative_scaling"] = numberProp("0 sizes words by rank, 1 by frequency", 0.5)
	renderProps["background"] = stringProp("black, white, transparent or #rrggbb[aa]. Default black")
	renderProps["font_path"] = stringProp("TTF or OTF font file. Default Go Regular")
	renderProps["collocations"] = booleanProp("Count frequent two-word phrases as one", true)

	return []Tool{
		{
			Name:        "imagecloud_render",
			Description: "Render a word cloud from a text shaped and colored by an image, and write it as PNG. Returns the placed words and stage timings.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProps,
				"required":   []string{"text_path", "image_path"},
			},
		},
		{
			Name:        "imagecloud_mask",
			Description: "Build the exclusion mask for an image and return it as base64-encoded PNG. White cells stay empty in the cloud.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": maskProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "imagecloud_edges",
			Description: "Detect edges in an image and return the strength map as base64-encoded grayscale PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": maskProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "imagecloud_words",
			Description: "Count word frequencies in a text after removing stopwords, most frequent first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text_path":       stringProp("Absolute path to the text, or to an image to read by OCR"),
					"extra_stopwords": stringProp("Comma-separated words to leave out"),
					"collocations":    booleanProp("Count frequent two-word phrases as one", true),
					"limit":           integerProp("Return at most this many words. Default all"),
				},
				"required": []string{"text_path"},
			},
		},
		{
			Name:        "imagecloud_image_info",
			Description: "Get dimensions, format and channel count of an image. Single-channel images are rejected because they cannot shape a cloud.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": stringProp("Absolute path to the image file"),
				},
				"required": []string{"path"},
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
