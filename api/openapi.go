// Package api holds the OpenAPI description served by the HTTP router.
package api

import _ "embed"

//go:embed openapi.yml
var Spec []byte
