package poe2opt

// Version is the library version, surfaced by the CLI and the MCP server.
const Version = "0.1.0"
