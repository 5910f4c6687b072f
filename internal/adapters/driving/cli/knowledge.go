package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// ErrReadOnlyKnowledge is returned when the configured store cannot be written.
var ErrReadOnlyKnowledge = errors.New("knowledge store is read-only")

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Inspect and seed the knowledge base used for classification",
}

var knowledgeListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List existing knowledge objects",
	Annotations: needsServices(),
	RunE:        runKnowledgeList,
}

var knowledgeImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import knowledge objects from YAML or JSON",
	Long: `Import knowledge objects into the configured store.

The file holds a list of objects, either at the top level or under an
"objects" key. Objects without an id get a generated one.

  - name: CFO
    type: persona
    tags: [finance, executive]
  - name: Enterprise
    type: segment
    deprecated: true`,
	Args:        cobra.ExactArgs(1),
	Annotations: needsServices(),
	RunE:        runKnowledgeImport,
}

func init() {
	knowledgeCmd.AddCommand(knowledgeListCmd)
	knowledgeCmd.AddCommand(knowledgeImportCmd)
	rootCmd.AddCommand(knowledgeCmd)
}

func runKnowledgeList(cmd *cobra.Command, _ []string) error {
	if services.Knowledge == nil {
		return ErrServicesNotConfigured
	}

	objs, err := services.Knowledge.ListExisting(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing knowledge: %w", err)
	}
	if len(objs) == 0 {
		cmd.Println("No knowledge objects. Seed some with 'content-automation knowledge import'.")
		return nil
	}

	sort.SliceStable(objs, func(i, j int) bool {
		if objs[i].Type != objs[j].Type {
			return objs[i].Type < objs[j].Type
		}
		return objs[i].Name < objs[j].Name
	})

	for _, o := range objs {
		line := fmt.Sprintf("%-14s %-32s %s", o.Type, o.Name, o.ID)
		if len(o.Tags) > 0 {
			line += "  [" + strings.Join(o.Tags, ", ") + "]"
		}
		if o.Deprecated {
			line += "  (deprecated)"
		}
		cmd.Println(line)
	}
	cmd.Printf("\n%s objects\n", humanize.Comma(int64(len(objs))))
	return nil
}

func runKnowledgeImport(cmd *cobra.Command, args []string) error {
	if services.KnowledgeWriter == nil {
		return ErrReadOnlyKnowledge
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	objs, err := decodeKnowledge(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	imported := 0
	for i, o := range objs {
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if strings.TrimSpace(o.Name) == "" || !o.Type.IsValid() {
			cmd.PrintErrf("skipping entry %d: name and a valid type are required\n", i+1)
			continue
		}
		if err := services.KnowledgeWriter.SaveObject(cmd.Context(), o); err != nil {
			return fmt.Errorf("saving %q: %w", o.Name, err)
		}
		imported++
	}

	cmd.Printf("Imported %d of %d objects\n", imported, len(objs))
	return nil
}

// decodeKnowledge accepts a top-level list or a document with an "objects" list.
// JSON input is valid YAML and decodes the same way.
func decodeKnowledge(data []byte) ([]domain.KnowledgeObject, error) {
	var list []domain.KnowledgeObject
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc struct {
		Objects []domain.KnowledgeObject `yaml:"objects"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Objects, nil
}
