package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bookopts/pkg/entity"
	"github.com/goliatone/go-bookopts/pkg/option"
	"github.com/goliatone/go-bookopts/pkg/optiondb"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	selectCfgs   []SelectConfig
	onConfirm    func()
	confirmErr   error
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.onConfirm != nil {
		s.onConfirm()
	}
	if s.confirmErr != nil {
		return false, s.confirmErr
	}
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func classifier(section, name string) option.Classifier {
	return option.NewClassifier(section, name, "", "")
}

var reportChoices = []option.Choice{
	{Key: "a", Name: "Alpha"},
	{Key: "b", Name: "Beta", Description: "<b>second</b> entry"},
	{Key: "c", Name: "Gamma"},
}

func TestRun_PromptsVisibleOptions(t *testing.T) {
	driver := &stubDriver{
		confirm:   []bool{true},
		inputs:    []string{"42", "7", "Quarterly"},
		textAreas: []string{"line one\nline two"},
		selectIdx: []int{2},
		multiIdx:  [][]int{{0, 2}},
	}
	d, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new dialog: %v", err)
	}

	toggle := option.NewValueOption(classifier("General", "Show totals"), false, option.UITypeBoolean)
	title := option.NewValueOption(classifier("General", "Title"), "Report", option.UITypeString)
	notes := option.NewValueOption(classifier("General", "Notes"), "", option.UITypeText)
	hidden := option.NewValueOption(classifier("General", "Hidden"), "keep", option.UITypeInternal)
	depth := option.NewRangeOption(classifier("Display", "Depth"), 5, 0, 10, 1, "")
	style, err := option.NewMultichoiceOption(classifier("Display", "Style"), "a", reportChoices, "")
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	columns, err := option.NewListOption(classifier("Display", "Columns"), nil, reportChoices, "")
	if err != nil {
		t.Fatalf("columns: %v", err)
	}

	db := optiondb.New()
	db.MustRegister(toggle, title, notes, hidden, depth, style, columns)

	if err := d.Run(context.Background(), db); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got, _ := option.Get[bool](toggle); !got {
		t.Fatalf("expected toggle to be set")
	}
	if got, _ := option.Get[string](title); got != "Quarterly" {
		t.Fatalf("unexpected title %q", got)
	}
	if got, _ := option.Get[string](notes); got != "line one\nline two" {
		t.Fatalf("unexpected notes %q", got)
	}
	if got, _ := option.Get[string](hidden); got != "keep" {
		t.Fatalf("internal option must not be prompted, got %q", got)
	}
	if got, _ := option.Get[int](depth); got != 7 {
		t.Fatalf("expected depth 7 after re-prompt, got %d", got)
	}
	if got, _ := option.Get[string](style); got != "c" {
		t.Fatalf("unexpected style %q", got)
	}
	if diff := cmp.Diff([]int{0, 2}, mustIndices(t, columns)); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	var invalid int
	for _, msg := range driver.infoMessages {
		if strings.HasPrefix(msg, "Invalid Display/Depth") {
			invalid++
		}
	}
	if invalid != 1 {
		t.Fatalf("expected one invalid notice for depth, got %v", driver.infoMessages)
	}
	if len(d.Binder().Controls()) != 0 {
		t.Fatalf("controls must be detached after the run")
	}
}

func mustIndices(t *testing.T, o *option.Option) []int {
	t.Helper()
	got, err := option.Get[[]int](o)
	if err != nil {
		t.Fatalf("indices: %v", err)
	}
	return got
}

func TestPrompt_SelectHelpIsPlainText(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1}}
	d, _ := New(WithPromptDriver(driver))
	style, err := option.NewMultichoiceOption(option.NewClassifier("Display", "Style", "", "Pick <i>one</i>"), "a", reportChoices, "")
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	if err := d.Prompt(context.Background(), style); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	help := driver.selectCfgs[0].Help
	if strings.Contains(help, "<") {
		t.Fatalf("expected markup to be stripped, got %q", help)
	}
	if !strings.Contains(help, "Pick one") || !strings.Contains(help, "Beta: second entry") {
		t.Fatalf("unexpected help %q", help)
	}
}

func TestPrompt_ControlAttachedWhilePrompting(t *testing.T) {
	driver := &stubDriver{confirm: []bool{true}}
	d, _ := New(WithPromptDriver(driver))
	opt := option.NewValueOption(classifier("General", "Flag"), false, option.UITypeBoolean)

	var during option.UIItemID
	driver.onConfirm = func() { during = opt.UIItem() }

	if err := d.Prompt(context.Background(), opt); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if during == option.NoUIItem {
		t.Fatalf("option must point at a control while prompting")
	}
	if opt.UIItem() != option.NoUIItem {
		t.Fatalf("option must be detached afterwards")
	}
}

func TestPrompt_AbortPropagates(t *testing.T) {
	driver := &stubDriver{confirmErr: ErrAborted}
	d, _ := New(WithPromptDriver(driver))
	opt := option.NewValueOption(classifier("General", "Flag"), false, option.UITypeBoolean)

	if err := d.Prompt(context.Background(), opt); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected abort, got %v", err)
	}
	if opt.IsChanged() {
		t.Fatalf("aborted prompt must not change the option")
	}
}

func TestPrompt_PlotSizeUnits(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1}, inputs: []string{"300"}}
	d, _ := New(WithPromptDriver(driver))
	size := option.NewRangeOption(classifier("Display", "Width"), 50.0, 10.0, 1000.0, 1.0, option.UITypePlotSize)

	if err := d.Prompt(context.Background(), size); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	rv := size.Value().(*option.RangeValue[float64])
	if !rv.IsAlternate() || rv.Value() != 300 {
		t.Fatalf("expected 300 pixels, got %v (alternate=%v)", rv.Value(), rv.IsAlternate())
	}
}

func TestPrompt_DateAbsoluteAndRelative(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0, 3},
		inputs:    []string{"17/05/2024", "2024-05-17"},
	}
	d, _ := New(WithPromptDriver(driver))
	date := option.NewDateOption(classifier("General", "End"), "")

	if err := d.Prompt(context.Background(), date); err != nil {
		t.Fatalf("absolute prompt: %v", err)
	}
	dv := date.Value().(*option.DateValue)
	want := time.Date(2024, time.May, 17, 0, 0, 0, 0, time.Local).Unix()
	if !dv.IsAbsolute() || dv.Time() != want {
		t.Fatalf("expected absolute %d, got %d (period %s)", want, dv.Time(), dv.Period())
	}
	if len(driver.infoMessages) != 1 {
		t.Fatalf("expected the malformed date to be reported once, got %v", driver.infoMessages)
	}

	if err := d.Prompt(context.Background(), date); err != nil {
		t.Fatalf("relative prompt: %v", err)
	}
	if dv.Period() != option.PeriodEndThisMonth {
		t.Fatalf("expected end-this-month, got %s", dv.Period())
	}
}

func TestPrompt_RestrictedDate(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{0}}
	d, _ := New(WithPromptDriver(driver))
	date, err := option.NewRestrictedDateOption(classifier("General", "Start"), "", []option.RelativeDatePeriod{
		option.PeriodStartThisMonth, option.PeriodEndThisMonth,
	})
	if err != nil {
		t.Fatalf("date: %v", err)
	}

	if err := d.Prompt(context.Background(), date); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if diff := cmp.Diff([]string{"Start of this month", "End of this month"}, driver.selectCfgs[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if driver.selectCfgs[0].DefaultIndex != 1 {
		t.Fatalf("expected default index 1, got %d", driver.selectCfgs[0].DefaultIndex)
	}
	if got, _ := option.Get[option.RelativeDatePeriod](date); got != option.PeriodStartThisMonth {
		t.Fatalf("unexpected period %s", got)
	}
}

func sampleBook(t *testing.T) (*entity.Book, map[string]entity.Entity) {
	t.Helper()
	book := entity.NewBook()
	items := map[string]entity.Entity{
		"usd":       entity.NewCurrency("USD", "US Dollar"),
		"eur":       entity.NewCurrency("EUR", "Euro"),
		"aapl":      entity.NewCommodity("NASDAQ", "AAPL", "Apple"),
		"checking":  entity.NewAccount("Checking", entity.AccountTypeBank),
		"savings":   entity.NewAccount("Savings", entity.AccountTypeBank),
		"groceries": entity.NewAccount("Groceries", entity.AccountTypeExpense),
	}
	for _, key := range []string{"usd", "eur", "aapl", "checking", "savings", "groceries"} {
		if err := book.Add(items[key]); err != nil {
			t.Fatalf("add %s: %v", key, err)
		}
	}
	return book, items
}

func TestPrompt_EntityCurrency(t *testing.T) {
	book, items := sampleBook(t)
	driver := &stubDriver{selectIdx: []int{2}}
	d, _ := New(WithPromptDriver(driver), WithBook(book))
	currency := option.NewEntityOption(classifier("General", "Currency"), items["usd"], option.UITypeCurrency)

	if err := d.Prompt(context.Background(), currency); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if diff := cmp.Diff([]string{noneLabel, "USD (US Dollar)", "EUR (Euro)"}, driver.selectCfgs[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if driver.selectCfgs[0].DefaultIndex != 1 {
		t.Fatalf("expected current currency preselected, got %d", driver.selectCfgs[0].DefaultIndex)
	}
	if got, _ := option.Get[entity.Entity](currency); got != items["eur"] {
		t.Fatalf("expected EUR, got %v", got)
	}
}

func TestPrompt_ValidatedEntityRePrompts(t *testing.T) {
	book, items := sampleBook(t)
	driver := &stubDriver{selectIdx: []int{0, 1}}
	d, _ := New(WithPromptDriver(driver), WithBook(book))
	currency, err := option.NewValidatedEntityOption(classifier("General", "Currency"), items["usd"],
		func(e entity.Entity) bool { return e != nil }, option.UITypeCurrency)
	if err != nil {
		t.Fatalf("validated: %v", err)
	}

	if err := d.Prompt(context.Background(), currency); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if len(driver.infoMessages) != 1 || !strings.HasPrefix(driver.infoMessages[0], "Invalid General/Currency") {
		t.Fatalf("expected a single rejection notice, got %v", driver.infoMessages)
	}
	if got, _ := option.Get[entity.Entity](currency); got != items["usd"] {
		t.Fatalf("expected USD, got %v", got)
	}
}

func TestPrompt_EntityRequiresBook(t *testing.T) {
	d, _ := New(WithPromptDriver(&stubDriver{}))
	opt := option.NewEntityOption(classifier("General", "Currency"), nil, option.UITypeCurrency)
	if err := d.Prompt(context.Background(), opt); !errors.Is(err, ErrNoBook) {
		t.Fatalf("expected ErrNoBook, got %v", err)
	}
}

func TestPrompt_AccountsFilteredByType(t *testing.T) {
	book, items := sampleBook(t)
	driver := &stubDriver{multiIdx: [][]int{{0, 1}}}
	d, _ := New(WithPromptDriver(driver), WithBook(book))
	accounts, err := option.NewAccountOption(classifier("Accounts", "Banks"), "", nil,
		[]entity.AccountType{entity.AccountTypeBank}, true)
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}

	if err := d.Prompt(context.Background(), accounts); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	got, _ := option.Get[[]*entity.Account](accounts)
	want := []*entity.Account{items["checking"].(*entity.Account), items["savings"].(*entity.Account)}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b *entity.Account) bool { return a == b })); diff != "" {
		t.Fatalf("accounts mismatch (-want +got):\n%s", diff)
	}
}

func TestPrompt_SingleAccount(t *testing.T) {
	book, items := sampleBook(t)
	driver := &stubDriver{selectIdx: []int{1}}
	d, _ := New(WithPromptDriver(driver), WithBook(book))
	accounts, err := option.NewAccountOption(classifier("Accounts", "Primary"), option.UITypeAccountSel, nil, nil, false)
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}

	if err := d.Prompt(context.Background(), accounts); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	got, _ := option.Get[[]*entity.Account](accounts)
	if len(got) != 1 || got[0] != items["groceries"] {
		t.Fatalf("expected groceries, got %v", got)
	}
}

func TestPrompt_UnsupportedWidgetIsSkipped(t *testing.T) {
	driver := &stubDriver{}
	d, _ := New(WithPromptDriver(driver))
	opt := option.NewValueOption(classifier("General", "Title"), "x", option.UITypeString)
	d.widgets.Override("General", "Title", "color-wheel")

	if err := d.Prompt(context.Background(), opt); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "color-wheel") {
		t.Fatalf("expected a skip notice, got %v", driver.infoMessages)
	}
}

func TestPlainHelp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "  plain  ", want: "plain"},
		{in: "<script>x()</script>Hello", want: "Hello"},
		{in: "Fish &amp; <em>chips</em>", want: "Fish & chips"},
	}
	for _, tc := range cases {
		if got := plainHelp(tc.in); got != tc.want {
			t.Fatalf("plainHelp(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
