package web

import _ "embed"

// Frontend is the single-page UI served at the root path.
//
//go:embed frontend.html
var Frontend []byte
