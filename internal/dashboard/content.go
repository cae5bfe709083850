package dashboard

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"

	"gosurvey/internal/errors"
)

//go:embed content/pages.yaml
var contentFS embed.FS

// Section names
const (
	SectionHome   = "home"
	SectionCharts = "charts"
	SectionAbout  = "about"
)

// Sections lists the navigation entries in menu order.
var Sections = []string{SectionHome, SectionCharts, SectionAbout}

// Content is the narrative text of the site.
type Content struct {
	Title   string                 `yaml:"title"`
	Sidebar string                 `yaml:"sidebar"`
	Footer  []string               `yaml:"footer"`
	Pages   map[string]PageContent `yaml:"pages"`
}

// PageContent is the narrative part of one section.
type PageContent struct {
	Label    string        `yaml:"label"`
	Heading  string        `yaml:"heading"`
	Sections []TextSection `yaml:"sections"`
}

// TextSection is a block of narrative. Style is one of box, text, highlights or people.
type TextSection struct {
	Style      string      `yaml:"style"`
	Title      string      `yaml:"title"`
	Body       string      `yaml:"body"`
	Highlights []Highlight `yaml:"highlights"`
	People     []Person    `yaml:"people"`
}

// Highlight is one of the home page's callout boxes.
type Highlight struct {
	Icon    string `yaml:"icon"`
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`
}

// Person is an author or advisor card.
type Person struct {
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Portrait string `yaml:"portrait"`
	Body     string `yaml:"body"`
}

// LoadContent parses the embedded page content.
func LoadContent() (*Content, error) {
	raw, err := contentFS.ReadFile("content/pages.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "page content missing")
	}
	return ParseContent(raw)
}

// ParseContent parses page content in YAML.
func ParseContent(raw []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("page content: %v", err))
	}
	for _, name := range Sections {
		if _, ok := c.Pages[name]; !ok {
			return nil, errors.ConfigInvalid(fmt.Sprintf("page content: section %q missing", name))
		}
	}
	return &c, nil
}

// Markdown renders a Markdown fragment to HTML.
func Markdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(bytes.TrimSpace(markdown.ToHTML([]byte(src), p, r)))
}

// Portrait is a person's picture as a data URI, or the warning shown in its place.
type Portrait struct {
	URI     template.URL
	Warning string
}

// LoadPortrait reads file from dir and embeds it as a data URI. A missing or undecodable image
// yields a warning naming role instead of an error, so the card still renders.
func LoadPortrait(dir, file, role string) (Portrait, error) {
	path := filepath.Join(dir, file)
	warning := fmt.Sprintf("Não foi possível carregar a imagem da %s. Verifique se o arquivo '%s' existe e é uma imagem JPEG válida.", role, file)

	raw, err := os.ReadFile(path)
	if err != nil {
		return Portrait{Warning: warning}, errors.MissingAsset(path, err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Portrait{Warning: warning}, errors.MissingAsset(path, err)
	}
	uri := fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(raw))
	return Portrait{URI: template.URL(uri)}, nil
}
