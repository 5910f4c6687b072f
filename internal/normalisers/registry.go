package normalisers

import (
	"mime"
	"sort"
	"strings"
	"sync"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// genericMIMETypes carry no format information and fall through to the extension.
var genericMIMETypes = map[string]bool{
	"":                         true,
	"application/octet-stream": true,
	"binary/octet-stream":      true,
}

// Registry selects normalisers by MIME type, then by file extension.
// Among several candidates the highest priority wins.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Lookup returns the best normaliser for the file.
func (r *Registry) Lookup(file *domain.UploadedFile) (driven.Normaliser, bool) {
	if file == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if mt := normaliseMIMEType(file.MIMEType); !genericMIMETypes[mt] {
		for _, n := range r.normalisers {
			if contains(n.SupportedMIMETypes(), mt) {
				return n, true
			}
		}
	}

	if ext := file.Extension(); ext != "" {
		for _, n := range r.normalisers {
			if contains(n.SupportedExtensions(), ext) {
				return n, true
			}
		}
	}

	return nil, false
}

// SupportedMIMETypes returns all MIME types that can be normalised.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(n driven.Normaliser) []string { return n.SupportedMIMETypes() })
}

// SupportedExtensions returns all file extensions that can be normalised.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(n driven.Normaliser) []string { return n.SupportedExtensions() })
}

func (r *Registry) collect(fn func(driven.Normaliser) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range r.normalisers {
		for _, v := range fn(n) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

// normaliseMIMEType strips parameters and lower-cases the media type.
func normaliseMIMEType(mt string) string {
	mt = strings.TrimSpace(mt)
	if mt == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
