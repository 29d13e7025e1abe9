// Package server implements the MCP (Model Context Protocol) server that
// exposes the imagecloud pipeline as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - imagecloud_render: Run the full pipeline and write the PNG
//   - imagecloud_mask: Exclusion mask as base64 PNG
//   - imagecloud_edges: Edge strength map as base64 PNG
//   - imagecloud_words: Frequency table after stopword removal
//   - imagecloud_image_info: Dimensions, format and channels
//
// Images are decoded once and kept in a grid cache keyed by path, so
// repeated mask and edge calls on the same file skip decoding.
//
// # Logging
//
// Stdout carries the protocol, so all logging goes to stderr through the
// logger passed to New.
package server
