package web

import "embed"

// TemplatesFS embeds HTML templates for server-side rendering.
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets (css/js).
//go:embed static/*
var StaticFS embed.FS

// DataFS embeds the sample dataset served at /data/data.json.
//go:embed data/data.json
var DataFS embed.FS

// DataPath is the sample dataset's path inside DataFS.
const DataPath = "data/data.json"
