// Package renderers ships the gauge definitions published for download, so
// offline tools can seed a cache slot without fetching them.
package renderers

import _ "embed"

// ProgressCircle is the lock-screen circular gauge.
//
//go:embed progress-circle.yaml
var ProgressCircle []byte
