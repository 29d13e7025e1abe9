// Package cli implements the imagecloud command-line interface.
//
// The root command renders a word cloud; subcommands serve the MCP tools
// over stdio, print the effective stopword set and report the build.
//
// # Configuration
//
// Every render flag can also be set in a TOML file passed with --config.
// Keys are the flag names with underscores:
//
//	text_path = "speech.txt"
//	image_path = "flag.png"
//	edge_strategy = "gradient"
//	no_plot = true
//
// A flag given on the command line wins over the file.
//
// # Logging
//
// Diagnostics go to stderr through charmbracelet/log at the level set by
// --log-level (DEBUG, INFO, WARN or ERROR). The logger travels in the
// command context and is retrieved with loggerFromContext.
package cli
