// Package learning holds the module catalog and the skill-gap recommender.
package learning

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	model "github.com/okian/maison/internal/domain/model"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is an immutable, validated set of learning modules.
type Catalog struct {
	modules []model.LearningModule // sorted by id
	byID    map[string]int
}

// NewCatalog validates modules and builds a Catalog ordered by id.
func NewCatalog(modules []model.LearningModule) (*Catalog, error) {
	c := &Catalog{
		modules: make([]model.LearningModule, 0, len(modules)),
		byID:    make(map[string]int, len(modules)),
	}
	seen := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateModule, m.ID)
		}
		seen[m.ID] = struct{}{}
		c.modules = append(c.modules, m)
	}
	sort.Slice(c.modules, func(i, j int) bool { return c.modules[i].ID < c.modules[j].ID })
	for i, m := range c.modules {
		c.byID[m.ID] = i
	}
	return c, nil
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// ParseCatalog builds a Catalog from a YAML document.
func ParseCatalog(data []byte) (*Catalog, error) {
	return loadCatalog(bytesProvider(data))
}

// LoadCatalog builds a Catalog from a YAML file on disk.
func LoadCatalog(path string) (*Catalog, error) {
	c, err := loadCatalog(file.Provider(path))
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

type moduleRecord struct {
	ID              string `koanf:"id"`
	Title           string `koanf:"title"`
	Category        string `koanf:"category"`
	Difficulty      string `koanf:"difficulty"`
	DurationMinutes int    `koanf:"duration_minutes"`
	ContentType     string `koanf:"content_type"`
}

func loadCatalog(p koanf.Provider) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, err
	}
	var records []moduleRecord
	if err := k.UnmarshalWithConf("modules", &records, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}
	modules := make([]model.LearningModule, 0, len(records))
	for _, r := range records {
		modules = append(modules, model.LearningModule{
			ID:              strings.TrimSpace(r.ID),
			Title:           strings.TrimSpace(r.Title),
			Category:        model.Category(strings.TrimSpace(r.Category)),
			Difficulty:      model.Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty))),
			DurationMinutes: r.DurationMinutes,
			ContentType:     model.ContentType(strings.ToLower(strings.TrimSpace(r.ContentType))),
		})
	}
	return NewCatalog(modules)
}

// Modules returns a copy of every module in id order.
func (c *Catalog) Modules() []model.LearningModule {
	out := make([]model.LearningModule, len(c.modules))
	copy(out, c.modules)
	return out
}

// Get looks a module up by id.
func (c *Catalog) Get(id string) (model.LearningModule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.LearningModule{}, false
	}
	return c.modules[i], true
}

// ByCategory returns the modules tagged cat, in id order.
func (c *Catalog) ByCategory(cat model.Category) []model.LearningModule {
	out := make([]model.LearningModule, 0)
	for _, m := range c.modules {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of modules.
func (c *Catalog) Len() int { return len(c.modules) }

// bytesProvider feeds an in-memory document to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("bytes provider does not support Read()")
}
