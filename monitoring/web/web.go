// Package web holds the static pages of the monitor.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
)

//go:embed dist/*
var staticAssets embed.FS

// DevEnvVar switches the monitor to serving the pages from the source tree,
// so that they can be edited without rebuilding.
const DevEnvVar = "BLOCKGEN_MONITOR_DEV"

// GetAssets returns the static pages.
func GetAssets() http.FileSystem {
	if isDevelopmentMode() {
		_, file, _, ok := runtime.Caller(0)
		if !ok {
			panic("error getting path")
		}

		return http.Dir(path.Join(path.Dir(file), "dist"))
	}

	subFS, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(subFS)
}

func isDevelopmentMode() bool {
	v, ok := os.LookupEnv(DevEnvVar)
	if !ok {
		return false
	}

	return strings.EqualFold(v, "true") || v == "1"
}
