// Copyright © 2024 The ELPS authors

// Package docs embeds the language guide for use by the CLI.
package docs

import _ "embed"

// Guide is a Markdown overview of the source language and the JavaScript it
// translates to.
//
//go:embed guide.md
var Guide string
