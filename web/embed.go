package web

import "embed"

// TemplatesFS embeds the server-rendered pages.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds stylesheets and page scripts.
//
//go:embed static/*
var StaticFS embed.FS
