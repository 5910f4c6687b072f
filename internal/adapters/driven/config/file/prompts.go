package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptPlaceholders is the number of %s verbs a formatted template must
// carry. Templates not listed are written verbatim.
var promptPlaceholders = map[string]int{
	driven.PromptClassificationFormat: 1,
}

// PromptStore serves the classification prompts from editable files.
//
// The directory is seeded with the built-in templates on first use and again
// after every Reload, so deleting a file restores its default. A file that is
// empty or has the wrong placeholders is ignored in favour of the default.
type PromptStore struct {
	mu     sync.Mutex
	dir    string
	cache  map[string]string
	seeded bool
}

// NewPromptStore creates a prompt store rooted at promptDir.
// If promptDir is empty, defaults to ~/.content-automation/prompts/.
// No I/O happens until the first Load.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		dir:   promptDir,
		cache: make(map[string]string),
	}, nil
}

// Load returns the template for a well-known prompt name.
func (s *PromptStore) Load(name string) (string, error) {
	def, ok := driven.DefaultPrompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prompt, ok := s.cache[name]; ok {
		return prompt, nil
	}
	if !s.seeded {
		if err := s.seed(); err != nil {
			logger.Warn("Using built-in prompts: %v", err)
			s.cache[name] = def
			return def, nil
		}
		s.seeded = true
	}

	prompt, err := s.read(name)
	switch {
	case err != nil:
		logger.Warn("Using built-in %s prompt: %v", name, err)
		prompt = def
	case prompt == "":
		prompt = def
	default:
		if err := checkPlaceholders(name, prompt); err != nil {
			logger.Warn("Ignoring %s: %v", s.path(name), err)
			prompt = def
		}
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops cached templates. The next Load re-reads the files and
// recreates any that were deleted.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.seeded = false
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed writes the default of every prompt whose file is missing.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for name, content := range driven.DefaultPrompts {
		if err := writeIfMissing(s.path(name), content); err != nil {
			return fmt.Errorf("create default prompt %q: %w", name, err)
		}
	}
	return writeIfMissing(filepath.Join(s.dir, "README.md"), promptReadme)
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// checkPlaceholders counts fmt verbs, ignoring escaped percent signs.
func checkPlaceholders(name, prompt string) error {
	want, formatted := promptPlaceholders[name]
	if !formatted {
		return nil
	}
	got := strings.Count(strings.ReplaceAll(prompt, "%%", ""), "%")
	if got != want {
		return fmt.Errorf("expected %d placeholder(s), found %d", want, got)
	}
	if strings.Count(prompt, "%s") != want {
		return errors.New("placeholders must be %s")
	}
	return nil
}

const promptReadme = `# Classification Prompts

These files hold the prompts sent to the LLM when a document is classified.

## Files

- ` + "`classification_system.txt`" + ` - Instructions placed before the type list and
  the inventory of existing knowledge objects
- ` + "`classification_format.txt`" + ` - The JSON output contract appended last

## Customisation

Edit either file to change how documents are classified. A running server
picks the change up on its own; other commands read the files on start.
Delete a file to restore its default. An empty file, or one with the wrong
placeholders, is ignored and the default is used instead.

## Format Placeholders

` + "`classification_format.txt`" + ` must keep exactly one ` + "`%s`" + `. It is replaced
with the list of allowed relationship types. Write ` + "`%%`" + ` for a literal percent
sign. ` + "`classification_system.txt`" + ` is used as written.

Whatever you change, the reply must still be a single JSON object with
objectType, objectName and confidence. Replies that are not are reported as
classification errors.
`
