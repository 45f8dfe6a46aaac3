// Package definition loads option declarations and entity seeds from YAML.
//
// A document looks like:
//
//	entities:
//	  commodities:
//	    - namespace: CURRENCY
//	      mnemonic: USD
//	  accounts:
//	    - name: Checking
//	      type: bank
//	options:
//	  - section: General
//	    name: Report currency
//	    type: entity
//	    ui: currency
//	    default: CURRENCY:USD
//
// Option types are string, bool, int, entity, validated-entity, range-int,
// range-float, multichoice, list, account and date.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDefinition wraps every structural problem found in a document.
var ErrInvalidDefinition = errors.New("definition: invalid definition")

// Document is one parsed definition file.
type Document struct {
	Source   string      `yaml:"-"`
	Entities Entities    `yaml:"entities"`
	Options  []OptionDef `yaml:"options"`
}

// Entities seeds the book before options are built.
type Entities struct {
	Commodities []CommodityDef `yaml:"commodities"`
	Accounts    []AccountDef   `yaml:"accounts"`
	Instances   []InstanceDef  `yaml:"instances"`
}

// CommodityDef declares a commodity. Namespace CURRENCY declares a currency.
type CommodityDef struct {
	GUID      string `yaml:"guid"`
	Namespace string `yaml:"namespace"`
	Mnemonic  string `yaml:"mnemonic"`
	FullName  string `yaml:"full_name"`
}

// AccountDef declares an account.
type AccountDef struct {
	GUID string `yaml:"guid"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// InstanceDef declares a budget, customer, vendor, employee, invoice or tax
// table.
type InstanceDef struct {
	GUID string `yaml:"guid"`
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
}

// OptionDef declares one option. Which of the type-specific fields apply
// depends on Type.
type OptionDef struct {
	Section string    `yaml:"section"`
	Name    string    `yaml:"name"`
	SortTag string    `yaml:"sort_tag"`
	Doc     string    `yaml:"doc"`
	Type    string    `yaml:"type"`
	UI      string    `yaml:"ui"`
	Default yaml.Node `yaml:"default"`

	Min  *float64 `yaml:"min"`
	Max  *float64 `yaml:"max"`
	Step *float64 `yaml:"step"`

	Choices      []ChoiceDef `yaml:"choices"`
	Periods      []string    `yaml:"periods"`
	AccountTypes []string    `yaml:"account_types"`
	Multi        bool        `yaml:"multi"`
	// Required rejects a nil entity on validated-entity options.
	Required bool `yaml:"required"`
}

// ChoiceDef is one multichoice entry. A missing name is derived from the key.
type ChoiceDef struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Parse decodes a YAML document. Unknown fields are rejected.
func Parse(data []byte, source string) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: file %s is empty", ErrInvalidDefinition, source)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidDefinition, source, err)
	}
	doc.Source = source
	return &doc, nil
}

// LoadFile reads and parses a single definition file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and parses every .yaml/.yml file, in lexical order. A nil
// fsys yields no documents.
func LoadFS(fsys fs.FS) ([]*Document, error) {
	if fsys == nil {
		return nil, nil
	}
	var docs []*Document
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// LoadPath loads a single file or, for a directory, every definition file
// below it.
func LoadPath(path string) ([]*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}
	if !info.IsDir() {
		doc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		return []*Document{doc}, nil
	}
	return LoadFS(os.DirFS(path))
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
