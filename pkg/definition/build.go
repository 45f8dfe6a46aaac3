package definition

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-bookopts/internal/labels"
	"github.com/goliatone/go-bookopts/pkg/codec"
	"github.com/goliatone/go-bookopts/pkg/entity"
	"github.com/goliatone/go-bookopts/pkg/option"
	"github.com/goliatone/go-bookopts/pkg/optiondb"
)

// Option types understood by Build.
const (
	TypeString          = "string"
	TypeBool            = "bool"
	TypeInt             = "int"
	TypeEntity          = "entity"
	TypeValidatedEntity = "validated-entity"
	TypeRangeInt        = "range-int"
	TypeRangeFloat      = "range-float"
	TypeMultichoice     = "multichoice"
	TypeList            = "list"
	TypeAccount         = "account"
	TypeDate            = "date"
)

const dateLayout = "2006-01-02"

var instanceKinds = []entity.Kind{
	entity.KindBudget, entity.KindCustomer, entity.KindVendor,
	entity.KindEmployee, entity.KindInvoice, entity.KindTaxTable,
}

// Apply seeds book with the entities of every document, then builds and
// registers their options in db. Problems are collected; valid options are
// still registered.
func Apply(db *optiondb.DB, book *entity.Book, docs ...*Document) error {
	if db == nil || book == nil {
		return errors.New("definition: db and book are required")
	}
	var errs []error
	for _, doc := range docs {
		if err := doc.Seed(book); err != nil {
			errs = append(errs, err)
		}
	}
	for _, doc := range docs {
		opts, err := doc.Build(book)
		if err != nil {
			errs = append(errs, err)
		}
		for _, o := range opts {
			if err := db.Register(o); err != nil {
				errs = append(errs, fmt.Errorf("definition: %s: %w", doc.Source, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Seed adds the document's entities to book.
func (d *Document) Seed(book *entity.Book) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidDefinition, d.Source, fmt.Sprintf(format, args...)))
	}

	for _, def := range d.Entities.Commodities {
		if strings.TrimSpace(def.Mnemonic) == "" {
			fail("commodity without mnemonic")
			continue
		}
		namespace := strings.TrimSpace(def.Namespace)
		if namespace == "" {
			namespace = entity.NamespaceCurrency
		}
		var c *entity.Commodity
		if def.GUID != "" {
			id, err := entity.ParseGUID(def.GUID)
			if err != nil {
				fail("commodity %s: %v", def.Mnemonic, err)
				continue
			}
			c = entity.NewCommodityWithGUID(id, namespace, def.Mnemonic, def.FullName)
		} else {
			c = entity.NewCommodity(namespace, def.Mnemonic, def.FullName)
		}
		if err := book.Add(c); err != nil {
			fail("commodity %s: %v", def.Mnemonic, err)
		}
	}

	for _, def := range d.Entities.Accounts {
		typ, err := entity.ParseAccountType(def.Type)
		if err != nil {
			fail("account %q: %v", def.Name, err)
			continue
		}
		var acct *entity.Account
		if def.GUID != "" {
			id, err := entity.ParseGUID(def.GUID)
			if err != nil {
				fail("account %q: %v", def.Name, err)
				continue
			}
			acct = entity.NewAccountWithGUID(id, def.Name, typ)
		} else {
			acct = entity.NewAccount(def.Name, typ)
		}
		if err := book.Add(acct); err != nil {
			fail("account %q: %v", def.Name, err)
		}
	}

	for _, def := range d.Entities.Instances {
		kind, ok := parseInstanceKind(def.Kind)
		if !ok {
			fail("instance %q: unknown kind %q", def.Name, def.Kind)
			continue
		}
		var inst *entity.Instance
		if def.GUID != "" {
			id, err := entity.ParseGUID(def.GUID)
			if err != nil {
				fail("instance %q: %v", def.Name, err)
				continue
			}
			inst = entity.NewInstanceWithGUID(id, kind, def.Name)
		} else {
			inst = entity.NewInstance(kind, def.Name)
		}
		if err := book.Add(inst); err != nil {
			fail("instance %q: %v", def.Name, err)
		}
	}
	return errors.Join(errs...)
}

func parseInstanceKind(raw string) (entity.Kind, bool) {
	candidate := entity.Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, kind := range instanceKinds {
		if kind == candidate {
			return kind, true
		}
	}
	return "", false
}

// Build constructs the document's options, resolving entity defaults against
// book. Options that fail are reported and left out.
func (d *Document) Build(book *entity.Book) ([]*option.Option, error) {
	var (
		out  []*option.Option
		errs []error
	)
	for i := range d.Options {
		def := &d.Options[i]
		o, err := def.build(book)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: option %s/%s: %w", ErrInvalidDefinition, d.Source, def.Section, def.Name, err))
			continue
		}
		out = append(out, o)
	}
	return out, errors.Join(errs...)
}

func (def *OptionDef) classifier() option.Classifier {
	return option.NewClassifier(def.Section, def.Name, def.SortTag, def.Doc)
}

func (def *OptionDef) uiType() (option.UIType, error) {
	if strings.TrimSpace(def.UI) == "" {
		return "", nil
	}
	return option.ParseUIType(def.UI)
}

func (def *OptionDef) build(book *entity.Book) (*option.Option, error) {
	ui, err := def.uiType()
	if err != nil {
		return nil, err
	}
	c := def.classifier()

	switch strings.ToLower(strings.TrimSpace(def.Type)) {
	case TypeString:
		var s string
		if err := decodeDefault(&def.Default, &s); err != nil {
			return nil, err
		}
		return option.NewValueOption(c, s, uiOr(ui, option.UITypeString)), nil

	case TypeBool:
		var b bool
		if err := decodeDefault(&def.Default, &b); err != nil {
			return nil, err
		}
		return option.NewValueOption(c, b, uiOr(ui, option.UITypeBoolean)), nil

	case TypeInt:
		var n int64
		if err := decodeDefault(&def.Default, &n); err != nil {
			return nil, err
		}
		return option.NewValueOption(c, n, uiOr(ui, option.UITypeNumberRange)), nil

	case TypeEntity:
		ui = uiOr(ui, option.UITypeCurrency)
		e, err := def.entityDefault(book, ui)
		if err != nil {
			return nil, err
		}
		return option.NewEntityOption(c, e, ui), nil

	case TypeValidatedEntity:
		ui = uiOr(ui, option.UITypeCurrency)
		e, err := def.entityDefault(book, ui)
		if err != nil {
			return nil, err
		}
		return option.NewValidatedEntityOption(c, e, entityValidator(ui, def.Required), ui)

	case TypeRangeInt:
		min, max, step, err := def.intLimits()
		if err != nil {
			return nil, err
		}
		value := min
		if err := decodeDefault(&def.Default, &value); err != nil {
			return nil, err
		}
		return option.NewRangeOption(c, value, min, max, step, ui), nil

	case TypeRangeFloat:
		min, max, step, err := def.limits()
		if err != nil {
			return nil, err
		}
		value := min
		if err := decodeDefault(&def.Default, &value); err != nil {
			return nil, err
		}
		return option.NewRangeOption(c, value, min, max, step, ui), nil

	case TypeMultichoice:
		var key string
		if err := decodeDefault(&def.Default, &key); err != nil {
			return nil, err
		}
		return option.NewMultichoiceOption(c, key, def.choices(), ui)

	case TypeList:
		var keys []string
		if err := decodeDefault(&def.Default, &keys); err != nil {
			return nil, err
		}
		choices := def.choices()
		indices, err := choiceIndices(choices, keys)
		if err != nil {
			return nil, err
		}
		return option.NewListOption(c, indices, choices, ui)

	case TypeAccount:
		return def.buildAccount(c, ui, book)

	case TypeDate:
		return def.buildDate(c, ui)

	default:
		return nil, fmt.Errorf("unknown option type %q", def.Type)
	}
}

func uiOr(ui, fallback option.UIType) option.UIType {
	if ui == "" {
		return fallback
	}
	return ui
}

func hasDefault(node *yaml.Node) bool {
	if node.Kind == 0 {
		return false
	}
	return !(node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

// decodeDefault leaves target untouched when no default was written.
func decodeDefault(node *yaml.Node, target any) error {
	if !hasDefault(node) {
		return nil
	}
	if err := node.Decode(target); err != nil {
		return fmt.Errorf("default at line %d: %v", node.Line, err)
	}
	return nil
}

func (def *OptionDef) limits() (min, max, step float64, err error) {
	if def.Min == nil || def.Max == nil {
		return 0, 0, 0, errors.New("range needs min and max")
	}
	min, max, step = *def.Min, *def.Max, 1
	if def.Step != nil {
		step = *def.Step
	}
	if min > max {
		return 0, 0, 0, fmt.Errorf("min %v exceeds max %v", min, max)
	}
	return min, max, step, nil
}

// intLimits is limits for range-int, which refuses fractional bounds.
func (def *OptionDef) intLimits() (min, max, step int, err error) {
	fmin, fmax, fstep, err := def.limits()
	if err != nil {
		return 0, 0, 0, err
	}
	for _, bound := range []struct {
		name  string
		value float64
	}{{"min", fmin}, {"max", fmax}, {"step", fstep}} {
		if bound.value != math.Trunc(bound.value) {
			return 0, 0, 0, fmt.Errorf("%s %v is not an integer", bound.name, bound.value)
		}
	}
	return int(fmin), int(fmax), int(fstep), nil
}

func (def *OptionDef) choices() []option.Choice {
	out := make([]option.Choice, 0, len(def.Choices))
	for _, ch := range def.Choices {
		name := strings.TrimSpace(ch.Name)
		if name == "" {
			name = labels.FromKey(ch.Key)
		}
		out = append(out, option.Choice{Key: ch.Key, Name: name, Description: ch.Description})
	}
	return out
}

func choiceIndices(choices []option.Choice, keys []string) ([]int, error) {
	indices := make([]int, 0, len(keys))
	for _, key := range keys {
		idx := option.NoIndex
		for i, ch := range choices {
			if ch.Key == key {
				idx = i
				break
			}
		}
		if idx == option.NoIndex {
			return nil, fmt.Errorf("%q is not a permissible value", key)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

func (def *OptionDef) entityDefault(book *entity.Book, ui option.UIType) (entity.Entity, error) {
	var ref string
	if err := decodeDefault(&def.Default, &ref); err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	kind := codec.EntityKindFor(ui)
	if kind == "" {
		return nil, fmt.Errorf("ui type %s does not refer to an entity", ui)
	}
	if kind == entity.KindCommodity && !strings.Contains(ref, ":") {
		ref = entity.NamespaceCurrency + ":" + ref
	}
	if kind == entity.KindAccount {
		acct, err := lookupAccount(book, ref)
		if err != nil {
			return nil, err
		}
		return acct, nil
	}
	return book.FromString(ref, kind)
}

// entityValidator accepts handles of the kind ui refers to. Currency options
// additionally require the currency namespace.
func entityValidator(ui option.UIType, required bool) func(entity.Entity) bool {
	kind := codec.EntityKindFor(ui)
	return func(e entity.Entity) bool {
		if e == nil {
			return !required
		}
		if kind != "" && e.EntityKind() != kind {
			return false
		}
		if ui == option.UITypeCurrency {
			c, ok := e.(*entity.Commodity)
			return ok && c.IsCurrency()
		}
		return true
	}
}

// lookupAccount resolves an account by GUID, falling back to its name.
func lookupAccount(book *entity.Book, ref string) (*entity.Account, error) {
	if e, err := book.FromString(ref, entity.KindAccount); err == nil {
		if acct, ok := e.(*entity.Account); ok {
			return acct, nil
		}
	}
	for _, acct := range book.Accounts() {
		if acct.Name == ref {
			return acct, nil
		}
	}
	return nil, fmt.Errorf("%w: account %q", entity.ErrNotFound, ref)
}

func (def *OptionDef) buildAccount(c option.Classifier, ui option.UIType, book *entity.Book) (*option.Option, error) {
	var refs []string
	if err := decodeDefault(&def.Default, &refs); err != nil {
		return nil, err
	}
	accounts := make([]*entity.Account, 0, len(refs))
	for _, ref := range refs {
		acct, err := lookupAccount(book, strings.TrimSpace(ref))
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	allowed := make([]entity.AccountType, 0, len(def.AccountTypes))
	for _, raw := range def.AccountTypes {
		typ, err := entity.ParseAccountType(raw)
		if err != nil {
			return nil, err
		}
		allowed = append(allowed, typ)
	}
	return option.NewAccountOption(c, ui, accounts, allowed, def.Multi)
}

// buildDate accepts a restricted period list, or a default that is a period
// name, a YYYY-MM-DD date or unix seconds.
func (def *OptionDef) buildDate(c option.Classifier, ui option.UIType) (*option.Option, error) {
	if len(def.Periods) > 0 {
		set := make([]option.RelativeDatePeriod, 0, len(def.Periods))
		for _, raw := range def.Periods {
			p, err := option.ParseRelativeDatePeriod(raw)
			if err != nil {
				return nil, err
			}
			set = append(set, p)
		}
		return option.NewRestrictedDateOption(c, ui, set)
	}
	if !hasDefault(&def.Default) {
		return option.NewDateOption(c, ui), nil
	}
	if def.Default.Kind == yaml.ScalarNode && def.Default.Tag == "!!int" {
		var seconds int64
		if err := decodeDefault(&def.Default, &seconds); err != nil {
			return nil, err
		}
		return option.NewAbsoluteDateOption(c, ui, seconds)
	}
	if def.Default.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("default at line %d: expected a date, period or unix seconds", def.Default.Line)
	}
	raw := strings.TrimSpace(def.Default.Value)
	if t, err := time.ParseInLocation(dateLayout, raw, time.Local); err == nil {
		return option.NewAbsoluteDateOption(c, ui, t.Unix())
	}
	p, err := option.ParseRelativeDatePeriod(raw)
	if err != nil {
		return nil, err
	}
	return option.NewRelativeDateOption(c, ui, p)
}
