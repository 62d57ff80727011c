// Package format reads and writes configuration documents as ordered value
// trees.
//
// Supported formats are YAML, JSON, TOML, XML, INI and ENV (read only). When
// the format is not known up front, ReadFile uses the file extension and
// ReadString tries each reader in the order JSON, YAML, TOML, XML, INI, ENV.
//
// Readers keep document key order where the underlying library exposes it
// (YAML, JSON, XML, INI). TOML and ENV keys come back sorted.
package format
