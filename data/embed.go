// Package data bundles the public server metadata shipped with ollafree.
package data

import "embed"

// Dir is the directory inside FS holding one JSON file per category.
const Dir = "ollama_json"

//go:embed ollama_json/*.json
var FS embed.FS
