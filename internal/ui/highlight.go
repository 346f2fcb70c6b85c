package ui

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

const highlightCacheLimit = 2000

var (
	hlCache   = make(map[string]string)
	hlCacheMu sync.RWMutex

	shellLexer = chroma.Coalesce(lexerOrFallback("bash"))
	hlStyle    = chromastyles.Get("monokai")
	hlFormat   = formatterOrFallback("terminal256")
)

func lexerOrFallback(name string) chroma.Lexer {
	if l := lexers.Get(name); l != nil {
		return l
	}
	return lexers.Fallback
}

func formatterOrFallback(name string) chroma.Formatter {
	if f := formatters.Get(name); f != nil {
		return f
	}
	return formatters.Fallback
}

// highlightShell colors a fragment of shell code. Results are memoized since
// the same lines are drawn on every frame.
func highlightShell(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	hlCacheMu.RLock()
	if v, ok := hlCache[text]; ok {
		hlCacheMu.RUnlock()
		return v
	}
	hlCacheMu.RUnlock()

	it, err := shellLexer.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := hlFormat.Format(&buf, hlStyle, it); err != nil {
		return text
	}
	out := strings.TrimRight(buf.String(), "\n")

	hlCacheMu.Lock()
	if len(hlCache) > highlightCacheLimit {
		hlCache = make(map[string]string)
	}
	hlCache[text] = out
	hlCacheMu.Unlock()
	return out
}
