package generation

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/phrazzld/edu-api/internal/domain"
)

//go:embed templates.yaml
var defaultCatalogYAML []byte

// Formula names how a word template turns its operands into an answer.
type Formula string

const (
	FormulaProduct    Formula = "product"
	FormulaDifference Formula = "difference"
	FormulaQuotient   Formula = "quotient"
	FormulaOperand    Formula = "operand"
)

// WordTemplate is one entry of the word problem catalog.
type WordTemplate struct {
	SubType domain.SubType `yaml:"sub_type"`
	Formula Formula        `yaml:"formula"`
	Text    string         `yaml:"text"`
	B       int            `yaml:"b"`
	BMax    int            `yaml:"b_max"`
	MinAge  int            `yaml:"min_age"`

	tmpl *template.Template
}

// Catalog holds the filler names and templates used by WordGenerator.
type Catalog struct {
	Names     []string        `yaml:"names"`
	Templates []*WordTemplate `yaml:"templates"`
}

type templateData struct {
	Name string
	A    int
	B    int
}

// ParseCatalog decodes and compiles a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %w", ErrInvalidConfig, err)
	}

	if len(c.Names) == 0 {
		return nil, fmt.Errorf("%w: catalog has no names", ErrInvalidConfig)
	}
	if len(c.Templates) == 0 {
		return nil, fmt.Errorf("%w: catalog has no templates", ErrInvalidConfig)
	}

	for i, t := range c.Templates {
		if !t.SubType.Valid() {
			return nil, fmt.Errorf("%w: template %d: unknown sub_type %q", ErrInvalidConfig, i, t.SubType)
		}
		switch t.Formula {
		case FormulaProduct, FormulaDifference, FormulaQuotient, FormulaOperand:
		default:
			return nil, fmt.Errorf("%w: template %d: unknown formula %q", ErrInvalidConfig, i, t.Formula)
		}
		if strings.TrimSpace(t.Text) == "" {
			return nil, fmt.Errorf("%w: template %d: empty text", ErrInvalidConfig, i)
		}

		tmpl, err := template.New(fmt.Sprintf("%s_%d", t.SubType, i)).
			Option("missingkey=error").
			Parse(t.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: template %d: %w", ErrInvalidConfig, i, err)
		}
		t.tmpl = tmpl
	}

	return &c, nil
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
	defaultCatalogErr  error
)

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(defaultCatalogYAML)
	})
	return defaultCatalog, defaultCatalogErr
}

// templatesFor returns the templates usable for the sub-type and age.
func (c *Catalog) templatesFor(sub domain.SubType, age int) []*WordTemplate {
	var out []*WordTemplate
	for _, t := range c.Templates {
		if t.SubType == sub && age >= t.MinAge {
			out = append(out, t)
		}
	}
	return out
}

func (t *WordTemplate) render(data templateData) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
