package normalisers

import (
	"github.com/drewgilbert-lab/content-automation-app/internal/normalisers/docx"
	"github.com/drewgilbert-lab/content-automation-app/internal/normalisers/markdown"
	"github.com/drewgilbert-lab/content-automation-app/internal/normalisers/pdf"
	"github.com/drewgilbert-lab/content-automation-app/internal/normalisers/plaintext"
)

// RegisterDefaults registers all built-in normalisers with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(markdown.New())
	r.Register(plaintext.New())
	r.Register(docx.New())
	r.Register(pdf.New())
}

// NewDefaultRegistry returns a registry with all built-in normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
