package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var (
	summaryLine = regexp.MustCompile(`(?m)^// @Summary (.+)$`)
	routerLine  = regexp.MustCompile(`(?m)^// @Router (\S+) \[(\w+)\]$`)
)

type swaggerDoc struct {
	Paths map[string]map[string]struct {
		Summary string `json:"summary"`
	} `json:"paths"`
}

func TestDocMatchesHandlerAnnotations(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	files, err := filepath.Glob("../internal/transport/rest/*.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	routes := 0
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		src, err := os.ReadFile(file)
		require.NoError(t, err)

		summaries := summaryLine.FindAllStringSubmatch(string(src), -1)
		routers := routerLine.FindAllStringSubmatch(string(src), -1)
		require.Len(t, routers, len(summaries), file)

		for i, r := range routers {
			path, method := r[1], r[2]
			op, ok := doc.Paths[path][method]
			if assert.True(t, ok, "%s %s missing from doc", method, path) {
				assert.Equal(t, summaries[i][1], op.Summary, "%s %s", method, path)
			}
			routes++
		}
	}

	total := 0
	for _, methods := range doc.Paths {
		total += len(methods)
	}
	assert.Equal(t, routes, total, "doc lists operations without a handler")
}
