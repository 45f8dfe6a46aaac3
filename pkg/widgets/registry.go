package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-bookopts/pkg/option"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetToggle      = "toggle"
	WidgetText        = "text"
	WidgetTextArea    = "text-area"
	WidgetSelect      = "select"
	WidgetMultiSelect = "multi-select"
	WidgetNumber      = "number"
	WidgetDate        = "date"
	WidgetEntity      = "entity"
	WidgetAccounts    = "accounts"
)

// Matcher decides whether a widget should present the supplied option.
type Matcher func(o *option.Option) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for options based on explicit overrides or
// registered matchers. Higher priority wins; ties fall back to registration
// order. Internal options never resolve.
type Registry struct {
	mu        sync.RWMutex
	rules     []rule
	overrides map[string]string
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{overrides: make(map[string]string)}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Override pins the widget for one option regardless of matchers. An empty
// widget removes the override.
func (r *Registry) Override(section, name, widget string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := overrideKey(section, name)
	if trimmed := strings.TrimSpace(widget); trimmed != "" {
		r.overrides[key] = trimmed
		return
	}
	delete(r.overrides, key)
}

// Resolve returns the widget name for an option.
func (r *Registry) Resolve(o *option.Option) (string, bool) {
	if r == nil || o == nil || o.UIType() == option.UITypeInternal {
		return "", false
	}
	r.mu.RLock()
	if explicit, ok := r.overrides[overrideKey(o.Section(), o.Name())]; ok {
		r.mu.RUnlock()
		return explicit, true
	}
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(o) {
			return entry.name, true
		}
	}
	return "", false
}

func overrideKey(section, name string) string {
	return section + "\x00" + name
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetToggle, 90, func(o *option.Option) bool {
		return o.Kind() == option.KindBool
	})

	r.Register(WidgetMultiSelect, 85, func(o *option.Option) bool {
		return o.Kind() == option.KindMultichoice && o.UIType() == option.UITypeList
	})

	r.Register(WidgetSelect, 80, func(o *option.Option) bool {
		return o.Kind() == option.KindMultichoice
	})

	r.Register(WidgetAccounts, 75, func(o *option.Option) bool {
		return o.Kind() == option.KindAccount
	})

	r.Register(WidgetDate, 70, func(o *option.Option) bool {
		return o.Kind() == option.KindDate
	})

	r.Register(WidgetNumber, 60, func(o *option.Option) bool {
		switch o.Kind() {
		case option.KindRangeInt, option.KindRangeFloat, option.KindInt:
			return true
		}
		return false
	})

	r.Register(WidgetEntity, 50, func(o *option.Option) bool {
		return o.Kind() == option.KindEntity || o.Kind() == option.KindValidatedEntity
	})

	r.Register(WidgetTextArea, 40, func(o *option.Option) bool {
		return o.Kind() == option.KindString && o.UIType() == option.UITypeText
	})

	r.Register(WidgetText, 10, func(o *option.Option) bool {
		return o.Kind() == option.KindString
	})
}
