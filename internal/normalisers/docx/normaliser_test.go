package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML, coreXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	// Add [Content_Types].xml (required for valid DOCX)
	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	if coreXML != "" {
		core, _ := w.Create("docProps/core.xml")
		core.Write([]byte(coreXML))
	}

	w.Close()
	return buf.Bytes()
}

func wrapBody(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
` + body + `
</w:body>
</w:document>`
}

func normalise(t *testing.T, filename string, content []byte) (*driven.NormaliseResult, error) {
	t.Helper()
	return New().Normalise(context.Background(), &domain.UploadedFile{
		Filename: filename,
		MIMEType: docxMIME,
		Content:  content,
	})
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, docxMIME)
	assert.Len(t, mimeTypes, 1)
	assert.Equal(t, []string{"docx"}, New().SupportedExtensions())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
	assert.Equal(t, domain.FormatDOCX, New().Format())
}

func TestNormalise_Success(t *testing.T) {
	coreXML := `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>Test Document</dc:title>
</cp:coreProperties>`

	content := createTestDOCX(wrapBody(`<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`), coreXML)

	result, err := normalise(t, "document.docx", content)
	require.NoError(t, err)

	assert.Equal(t, "Test Document", result.Title)
	assert.Equal(t, "Hello World", result.Content)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_InvalidZip(t *testing.T) {
	result, err := normalise(t, "invalid.docx", []byte("not a zip file"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open docx archive")
	assert.Nil(t, result)
}

func TestNormalise_MissingDocumentPart(t *testing.T) {
	_, err := normalise(t, "empty.docx", createTestDOCX("", ""))
	assert.ErrorIs(t, err, ErrMissingDocumentPart)
}

func TestNormalise_MalformedXML(t *testing.T) {
	_, err := normalise(t, "bad.docx", createTestDOCX("<w:document><w:body><w:p>", ""))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse document.xml")
}

func TestNormalise_TitleFallbackToFilename(t *testing.T) {
	content := createTestDOCX(wrapBody(`<w:p><w:r><w:t>Content</w:t></w:r></w:p>`), "")

	result, err := normalise(t, "my_document.docx", content)
	require.NoError(t, err)
	assert.Equal(t, "my document", result.Title)
}

func TestNormalise_MultipleParagraphs(t *testing.T) {
	content := createTestDOCX(wrapBody(`<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Third paragraph</w:t></w:r></w:p>`), "")

	result, err := normalise(t, "doc.docx", content)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph\nSecond paragraph\nThird paragraph", result.Content)
}

func TestNormalise_MultipleRuns(t *testing.T) {
	content := createTestDOCX(wrapBody(`<w:p>
<w:r><w:t>Hello </w:t></w:r>
<w:r><w:t>World</w:t></w:r>
</w:p>`), "")

	result, err := normalise(t, "doc.docx", content)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", result.Content)
}

func TestNormalise_TablesAndTabs(t *testing.T) {
	content := createTestDOCX(wrapBody(`<w:p><w:r><w:t>Intro</w:t></w:r></w:p>
<w:tbl><w:tr>
<w:tc><w:p><w:r><w:t>Cell A</w:t><w:tab/><w:t>tabbed</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:t>Cell B</w:t></w:r></w:p></w:tc>
</w:tr></w:tbl>`), "")

	result, err := normalise(t, "table.docx", content)
	require.NoError(t, err)
	assert.Equal(t, "Intro\nCell A\ttabbed\nCell B", result.Content)
}

func TestNormalise_EmptyDocument(t *testing.T) {
	result, err := normalise(t, "empty.docx", createTestDOCX(wrapBody(""), ""))

	require.NoError(t, err)
	assert.Empty(t, result.Content)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func BenchmarkNormalise(b *testing.B) {
	var body bytes.Buffer
	for i := 0; i < 200; i++ {
		body.WriteString(`<w:p><w:r><w:t>Paragraph text for benchmarking the extractor.</w:t></w:r></w:p>`)
	}
	content := createTestDOCX(wrapBody(body.String()), "")
	file := &domain.UploadedFile{Filename: "bench.docx", MIMEType: docxMIME, Content: content}
	n := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.Normalise(context.Background(), file)
	}
}
