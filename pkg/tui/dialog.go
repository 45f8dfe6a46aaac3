// Package tui edits an option database from the terminal. Every visible
// option is attached to a control through uibind for the duration of its
// prompt, so the option's UI item always points at the control being shown.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-bookopts/pkg/codec"
	"github.com/goliatone/go-bookopts/pkg/entity"
	"github.com/goliatone/go-bookopts/pkg/option"
	"github.com/goliatone/go-bookopts/pkg/optiondb"
	"github.com/goliatone/go-bookopts/pkg/uibind"
	"github.com/goliatone/go-bookopts/pkg/widgets"
)

const (
	dateLayout    = "2006-01-02"
	absoluteLabel = "Absolute date"
	noneLabel     = "(none)"
)

// Dialog prompts for option values.
type Dialog struct {
	driver   PromptDriver
	widgets  *widgets.Registry
	binder   *uibind.Registry
	book     *entity.Book
	logger   *zap.Logger
	pageSize int
}

// New constructs a dialog with defaults (survey driver, built-in widgets, a
// private binder and a no-op logger).
func New(options ...Option) (*Dialog, error) {
	d := &Dialog{
		driver:  newSurveyDriver(),
		widgets: widgets.NewRegistry(),
		binder:  uibind.NewRegistry(),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d, nil
}

// Binder exposes the registry controls are attached through.
func (d *Dialog) Binder() *uibind.Registry { return d.binder }

// Run prompts for every visible option of db in section order. The first
// prompt error stops the run; options already answered keep their values.
func (d *Dialog) Run(ctx context.Context, db *optiondb.DB) error {
	if db == nil {
		return errors.New("tui: option database is nil")
	}
	section := ""
	for _, o := range db.All() {
		if o.UIType() == option.UITypeInternal {
			continue
		}
		if o.Section() != section {
			section = o.Section()
			if err := d.driver.Info(ctx, fmt.Sprintf("== %s ==", section)); err != nil {
				return err
			}
		}
		if err := d.Prompt(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

// Prompt asks for a single option. Internal options and options no widget
// claims are skipped.
func (d *Dialog) Prompt(ctx context.Context, o *option.Option) error {
	if o == nil || o.UIType() == option.UITypeInternal {
		return nil
	}
	widget, ok := d.widgets.Resolve(o)
	if !ok {
		return d.driver.Info(ctx, fmt.Sprintf("No widget for %s/%s; skipped", o.Section(), o.Name()))
	}
	if _, err := d.binder.Attach(o, widget); err != nil {
		return err
	}
	defer d.binder.Detach(o)

	d.logger.Debug("prompting option",
		zap.String("section", o.Section()),
		zap.String("name", o.Name()),
		zap.String("widget", widget),
	)

	switch widget {
	case widgets.WidgetToggle:
		return d.promptToggle(ctx, o)
	case widgets.WidgetText:
		return d.promptText(ctx, o, false)
	case widgets.WidgetTextArea:
		return d.promptText(ctx, o, true)
	case widgets.WidgetNumber:
		return d.promptNumber(ctx, o)
	case widgets.WidgetSelect:
		return d.promptSelect(ctx, o)
	case widgets.WidgetMultiSelect:
		return d.promptMultiSelect(ctx, o)
	case widgets.WidgetDate:
		return d.promptDate(ctx, o)
	case widgets.WidgetEntity:
		return d.promptEntity(ctx, o)
	case widgets.WidgetAccounts:
		return d.promptAccounts(ctx, o)
	default:
		return d.driver.Info(ctx, fmt.Sprintf("Widget %q is not supported in the terminal; %s/%s skipped", widget, o.Section(), o.Name()))
	}
}

func (d *Dialog) promptToggle(ctx context.Context, o *option.Option) error {
	current, err := option.Get[bool](o)
	if err != nil {
		return err
	}
	answer, err := d.driver.Confirm(ctx, ConfirmConfig{
		Message: o.Name(),
		Default: current,
		Help:    plainHelp(o.DocString()),
	})
	if err != nil {
		return err
	}
	return option.Set(o, answer)
}

func (d *Dialog) promptText(ctx context.Context, o *option.Option, multiline bool) error {
	current, err := option.Get[string](o)
	if err != nil {
		return err
	}
	var answer string
	if multiline {
		answer, err = d.driver.TextArea(ctx, TextAreaConfig{
			Message: o.Name(),
			Default: current,
			Help:    plainHelp(o.DocString()),
		})
	} else {
		answer, err = d.driver.Input(ctx, InputConfig{
			Message: o.Name(),
			Default: current,
			Help:    plainHelp(o.DocString()),
		})
	}
	if err != nil {
		return err
	}
	return option.Set(o, answer)
}

func (d *Dialog) promptNumber(ctx context.Context, o *option.Option) error {
	switch v := o.Value().(type) {
	case *option.RangeValue[int]:
		if err := d.promptPlotUnit(ctx, o, v.IsAlternate(), v.SetAlternate); err != nil {
			return err
		}
		min, max, _ := v.Limits()
		return d.promptParsed(ctx, o, strconv.Itoa(v.Value()), fmt.Sprintf("%d..%d", min, max), func(raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			return v.SetValue(n)
		})
	case *option.RangeValue[float64]:
		if err := d.promptPlotUnit(ctx, o, v.IsAlternate(), v.SetAlternate); err != nil {
			return err
		}
		min, max, _ := v.Limits()
		return d.promptParsed(ctx, o, formatFloat(v.Value()), formatFloat(min)+".."+formatFloat(max), func(raw string) error {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return err
			}
			return v.SetValue(f)
		})
	case *option.PlainValue[int64]:
		return d.promptParsed(ctx, o, strconv.FormatInt(v.Value(), 10), "", func(raw string) error {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return err
			}
			return v.SetValue(n)
		})
	default:
		return fmt.Errorf("%w: %s/%s is %s, not a number", option.ErrWrongKind, o.Section(), o.Name(), o.Kind())
	}
}

// promptPlotUnit asks for percent or pixels on plot-size ranges only.
func (d *Dialog) promptPlotUnit(ctx context.Context, o *option.Option, alternate bool, set func(bool)) error {
	if o.UIType() != option.UITypePlotSize {
		return nil
	}
	units := []string{"percent", "pixels"}
	def := 0
	if alternate {
		def = 1
	}
	idx, err := d.driver.Select(ctx, SelectConfig{
		Message:      o.Name() + " unit",
		Options:      units,
		DefaultIndex: def,
		PageSize:     d.pageSize,
	})
	if err != nil {
		return err
	}
	set(idx == 1)
	return nil
}

// promptParsed re-prompts until apply accepts the answer.
func (d *Dialog) promptParsed(ctx context.Context, o *option.Option, current, bounds string, apply func(string) error) error {
	message := o.Name()
	if bounds != "" {
		message = fmt.Sprintf("%s (%s)", message, bounds)
	}
	for {
		answer, err := d.driver.Input(ctx, InputConfig{
			Message: message,
			Default: current,
			Help:    plainHelp(o.DocString()),
		})
		if err != nil {
			return err
		}
		applyErr := apply(strings.TrimSpace(answer))
		if applyErr == nil {
			return nil
		}
		if err := d.invalid(ctx, o, applyErr); err != nil {
			return err
		}
	}
}

func (d *Dialog) promptSelect(ctx context.Context, o *option.Option) error {
	mc, ok := o.Value().(*option.MultichoiceValue)
	if !ok {
		return fmt.Errorf("%w: %s/%s is %s, not multichoice", option.ErrWrongKind, o.Section(), o.Name(), o.Kind())
	}
	labels, help := choiceLabels(o)
	for {
		idx, err := d.driver.Select(ctx, SelectConfig{
			Message:      o.Name(),
			Options:      labels,
			DefaultIndex: mc.Index(),
			Help:         help,
			PageSize:     d.pageSize,
		})
		if err != nil {
			return err
		}
		setErr := mc.SetIndex(idx)
		if setErr == nil {
			return nil
		}
		if err := d.invalid(ctx, o, setErr); err != nil {
			return err
		}
	}
}

func (d *Dialog) promptMultiSelect(ctx context.Context, o *option.Option) error {
	mc, ok := o.Value().(*option.MultichoiceValue)
	if !ok {
		return fmt.Errorf("%w: %s/%s is %s, not multichoice", option.ErrWrongKind, o.Section(), o.Name(), o.Kind())
	}
	labels, help := choiceLabels(o)
	indices, err := d.driver.MultiSelect(ctx, SelectConfig{
		Message:  o.Name(),
		Options:  labels,
		Defaults: mc.Multiple(),
		Help:     help,
		PageSize: d.pageSize,
	})
	if err != nil {
		return err
	}
	return mc.SetMultiple(indices)
}

func choiceLabels(o *option.Option) ([]string, string) {
	n := o.NumPermissibleValues()
	labels := make([]string, 0, n)
	var help []string
	for i := 0; i < n; i++ {
		name := o.PermissibleValueName(i)
		labels = append(labels, name)
		if desc := plainHelp(o.PermissibleValueDescription(i)); desc != "" {
			help = append(help, name+": "+desc)
		}
	}
	if doc := plainHelp(o.DocString()); doc != "" {
		help = append([]string{doc}, help...)
	}
	return labels, strings.Join(help, "\n")
}

func (d *Dialog) promptDate(ctx context.Context, o *option.Option) error {
	dv, ok := o.Value().(*option.DateValue)
	if !ok {
		return fmt.Errorf("%w: %s/%s is %s, not a date", option.ErrWrongKind, o.Section(), o.Name(), o.Kind())
	}
	if set := dv.PeriodSet(); len(set) > 0 {
		return d.promptPeriod(ctx, o, dv, set)
	}

	periods := option.RelativePeriods()
	labels := []string{absoluteLabel}
	for _, p := range periods {
		labels = append(labels, p.DisplayName())
	}
	def := 0
	if !dv.IsAbsolute() {
		def = slices.Index(periods, dv.Period()) + 1
	}
	idx, err := d.driver.Select(ctx, SelectConfig{
		Message:      o.Name(),
		Options:      labels,
		DefaultIndex: def,
		Help:         plainHelp(o.DocString()),
		PageSize:     d.pageSize,
	})
	if err != nil {
		return err
	}
	if idx > 0 && idx <= len(periods) {
		return dv.SetPeriod(periods[idx-1])
	}

	current := ""
	if dv.IsAbsolute() {
		current = time.Unix(dv.Time(), 0).Format(dateLayout)
	}
	return d.promptParsed(ctx, o, current, "YYYY-MM-DD", func(raw string) error {
		t, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return err
		}
		return dv.SetTime(t.Unix())
	})
}

func (d *Dialog) promptPeriod(ctx context.Context, o *option.Option, dv *option.DateValue, set []option.RelativeDatePeriod) error {
	labels := make([]string, 0, len(set))
	for _, p := range set {
		labels = append(labels, p.DisplayName())
	}
	def := dv.PeriodIndex()
	if def < 0 {
		def = dv.DefaultPeriodIndex()
	}
	idx, err := d.driver.Select(ctx, SelectConfig{
		Message:      o.Name(),
		Options:      labels,
		DefaultIndex: def,
		Help:         plainHelp(o.DocString()),
		PageSize:     d.pageSize,
	})
	if err != nil {
		return err
	}
	return dv.SetPeriodIndex(idx)
}

func (d *Dialog) promptEntity(ctx context.Context, o *option.Option) error {
	if d.book == nil {
		return ErrNoBook
	}
	current, err := option.Get[entity.Entity](o)
	if err != nil {
		return err
	}
	candidates := d.entityCandidates(o.UIType())
	labels := []string{noneLabel}
	def := 0
	for i, e := range candidates {
		labels = append(labels, entityLabel(e))
		if current != nil && e.GUID() == current.GUID() {
			def = i + 1
		}
	}
	for {
		idx, err := d.driver.Select(ctx, SelectConfig{
			Message:      o.Name(),
			Options:      labels,
			DefaultIndex: def,
			Help:         plainHelp(o.DocString()),
			PageSize:     d.pageSize,
		})
		if err != nil {
			return err
		}
		var chosen entity.Entity
		if idx > 0 && idx <= len(candidates) {
			chosen = candidates[idx-1]
		}
		setErr := option.Set(o, chosen)
		if setErr == nil {
			return nil
		}
		if err := d.invalid(ctx, o, setErr); err != nil {
			return err
		}
	}
}

func (d *Dialog) entityCandidates(ui option.UIType) []entity.Entity {
	var out []entity.Entity
	switch ui {
	case option.UITypeCurrency:
		for _, c := range d.book.Commodities(true) {
			out = append(out, c)
		}
	case option.UITypeCommodity:
		for _, c := range d.book.Commodities(false) {
			out = append(out, c)
		}
	default:
		if kind := codec.EntityKindFor(ui); kind != "" {
			out = d.book.Instances(kind)
		}
	}
	return out
}

func (d *Dialog) promptAccounts(ctx context.Context, o *option.Option) error {
	av, ok := o.Value().(*option.AccountValue)
	if !ok {
		return fmt.Errorf("%w: %s/%s is %s, not an account list", option.ErrWrongKind, o.Section(), o.Name(), o.Kind())
	}
	if d.book == nil {
		return ErrNoBook
	}
	allowed := av.AccountTypes()
	var candidates []*entity.Account
	for _, acct := range d.book.Accounts() {
		if len(allowed) == 0 || slices.Contains(allowed, acct.Type) {
			candidates = append(candidates, acct)
		}
	}
	labels := make([]string, 0, len(candidates))
	var selected []int
	current := av.Value()
	for i, acct := range candidates {
		labels = append(labels, entityLabel(acct))
		if slices.Contains(current, acct) {
			selected = append(selected, i)
		}
	}

	for {
		var picked []*entity.Account
		if av.IsMultiselect() {
			indices, err := d.driver.MultiSelect(ctx, SelectConfig{
				Message:  o.Name(),
				Options:  labels,
				Defaults: selected,
				Help:     plainHelp(o.DocString()),
				PageSize: d.pageSize,
			})
			if err != nil {
				return err
			}
			for _, idx := range indices {
				if idx >= 0 && idx < len(candidates) {
					picked = append(picked, candidates[idx])
				}
			}
		} else {
			def := 0
			if len(selected) > 0 {
				def = selected[0]
			}
			idx, err := d.driver.Select(ctx, SelectConfig{
				Message:      o.Name(),
				Options:      labels,
				DefaultIndex: def,
				Help:         plainHelp(o.DocString()),
				PageSize:     d.pageSize,
			})
			if err != nil {
				return err
			}
			if idx >= 0 && idx < len(candidates) {
				picked = append(picked, candidates[idx])
			}
		}
		setErr := av.SetValue(picked)
		if setErr == nil {
			return nil
		}
		if err := d.invalid(ctx, o, setErr); err != nil {
			return err
		}
	}
}

func (d *Dialog) invalid(ctx context.Context, o *option.Option, cause error) error {
	d.logger.Debug("rejected input",
		zap.String("section", o.Section()),
		zap.String("name", o.Name()),
		zap.Error(cause),
	)
	return d.driver.Info(ctx, fmt.Sprintf("Invalid %s/%s: %v", o.Section(), o.Name(), cause))
}

func entityLabel(e entity.Entity) string {
	switch v := e.(type) {
	case *entity.Account:
		return fmt.Sprintf("%s [%s]", v.Name, v.Type)
	case *entity.Commodity:
		if v.FullName != "" {
			return fmt.Sprintf("%s (%s)", v.Mnemonic, v.FullName)
		}
		return v.Mnemonic
	case *entity.Instance:
		return v.Name
	default:
		return entity.GUIDString(e.GUID())
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
