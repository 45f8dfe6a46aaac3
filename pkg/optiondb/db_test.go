package optiondb

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-bookopts/pkg/book"
	"github.com/goliatone/go-bookopts/pkg/codec"
	"github.com/goliatone/go-bookopts/pkg/option"
)

func buildDB(t *testing.T, opts ...Option) *DB {
	t.Helper()
	db := New(opts...)
	style, err := option.NewMultichoiceOption(
		option.NewClassifier("General", "Style", "b", "Report style"),
		"plain",
		[]option.Choice{{Key: "plain"}, {Key: "fancy"}},
		"",
	)
	if err != nil {
		t.Fatalf("multichoice: %v", err)
	}
	db.MustRegister(
		option.NewValueOption(option.NewClassifier("General", "Title", "a", ""), "Report", option.UITypeString),
		style,
		option.NewValueOption(option.NewClassifier("General", "Show Totals", "c", ""), true, option.UITypeBoolean),
		option.NewRangeOption(option.NewClassifier("Display", "Width", "a", ""), 50, 10, 100, 1, option.UITypePlotSize),
	)
	return db
}

func names(opts []*option.Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Name())
	}
	return out
}

func TestRegisterAndLookup(t *testing.T) {
	db := buildDB(t)

	if db.Len() != 4 {
		t.Fatalf("expected 4 options, got %d", db.Len())
	}
	dup := option.NewValueOption(option.NewClassifier("General", "Title", "z", ""), "x", option.UITypeString)
	if err := db.Register(dup); !errors.Is(err, ErrDuplicateOption) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := db.Register(option.NewValueOption(option.NewClassifier("General", " ", "", ""), "x", "")); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
	if _, err := db.Lookup("General", "Missing"); !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	o, err := db.Lookup("Display", "Width")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if o.Kind() != option.KindRangeInt {
		t.Fatalf("unexpected kind %s", o.Kind())
	}
}

func TestOrdering(t *testing.T) {
	db := buildDB(t)

	if diff := cmp.Diff([]string{"Display", "General"}, db.Sections()); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Title", "Style", "Show Totals"}, names(db.Options("General"))); diff != "" {
		t.Fatalf("sort tag order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Width", "Title", "Style", "Show Totals"}, names(db.All())); diff != "" {
		t.Fatalf("all order mismatch (-want +got):\n%s", diff)
	}

	var visited []string
	stop := errors.New("stop")
	err := db.Each(func(o *option.Option) error {
		visited = append(visited, o.Name())
		if len(visited) == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || len(visited) != 2 {
		t.Fatalf("expected Each to stop after two, got %v (err=%v)", visited, err)
	}
}

func TestChangedAndReset(t *testing.T) {
	db := buildDB(t)
	title, _ := db.Lookup("General", "Title")
	if err := option.Set(title, "Cash Flow"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff([]string{"Title"}, names(db.Changed())); diff != "" {
		t.Fatalf("changed mismatch (-want +got):\n%s", diff)
	}
	db.ResetDefaults()
	if len(db.Changed()) != 0 {
		t.Fatalf("expected no changes after reset")
	}
}

func TestSaveAndLoadBook(t *testing.T) {
	ctx := context.Background()
	store := book.NewMemoryStore()

	src := buildDB(t)
	title, _ := src.Lookup("General", "Title")
	style, _ := src.Lookup("General", "Style")
	width, _ := src.Lookup("Display", "Width")
	if err := option.Set(title, "Cash Flow"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if err := option.Set(style, "fancy"); err != nil {
		t.Fatalf("set style: %v", err)
	}
	if err := option.Set(width, 80); err != nil {
		t.Fatalf("set width: %v", err)
	}
	if err := src.SaveToBook(ctx, store); err != nil {
		t.Fatalf("save: %v", err)
	}

	keys, _ := store.Keys(ctx)
	want := []book.Key{{Section: "Display", Name: "Width"}, {Section: "General", Name: "Style"}, {Section: "General", Name: "Title"}}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("stored keys mismatch (-want +got):\n%s", diff)
	}
	if text, _, _ := store.Load(ctx, book.Key{Section: "General", Name: "Style"}); text != "'fancy" {
		t.Fatalf("expected scheme encoding, got %q", text)
	}

	dst := buildDB(t)
	if err := dst.LoadFromBook(ctx, store); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, _ := dst.Lookup("General", "Title")
	if v, _ := option.Get[string](got); v != "Cash Flow" {
		t.Fatalf("expected loaded title, got %q", v)
	}
	got, _ = dst.Lookup("Display", "Width")
	if v, _ := option.Get[int](got); v != 80 {
		t.Fatalf("expected loaded width 80, got %d", v)
	}

	if err := option.Set(title, "Report"); err != nil {
		t.Fatalf("set back: %v", err)
	}
	if err := src.SaveToBook(ctx, store); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if _, ok, _ := store.Load(ctx, book.Key{Section: "General", Name: "Title"}); ok {
		t.Fatalf("slot of an option back at default must be removed")
	}
}

func TestLoadFromBook_CollectsFailures(t *testing.T) {
	ctx := context.Background()
	store := book.NewMemoryStore()
	slots := map[book.Key]string{
		{Section: "General", Name: "Style"}:       "'unknown",
		{Section: "General", Name: "Show Totals"}: "maybe",
		{Section: "General", Name: "Title"}:       `"Loaded"`,
		{Section: "Other", Name: "Stray"}:         "#t",
	}
	for key, value := range slots {
		if err := store.Save(ctx, key, value); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	core, logs := observer.New(zapcore.DebugLevel)
	db := buildDB(t, WithLogger(zap.New(core)))
	err := db.LoadFromBook(ctx, store)
	if !errors.Is(err, option.ErrInvalidValue) || !errors.Is(err, option.ErrParse) {
		t.Fatalf("expected both failures to be reported, got %v", err)
	}
	title, _ := db.Lookup("General", "Title")
	if v, _ := option.Get[string](title); v != "Loaded" {
		t.Fatalf("valid slots must still load, got %q", v)
	}
	if logs.FilterMessage("book slot rejected").Len() != 2 {
		t.Fatalf("expected two rejection warnings, got %d", logs.FilterMessage("book slot rejected").Len())
	}
	if logs.FilterMessage("ignoring book slot without option").Len() != 1 {
		t.Fatalf("expected the stray slot to be logged")
	}
}

func TestSaveAndLoadBook_DatesAndPlotUnits(t *testing.T) {
	ctx := context.Background()
	classifier := option.NewClassifier("General", "Subject", "a", "")

	cases := []struct {
		name   string
		build  func(t *testing.T) *option.Option
		mutate func(o *option.Option) error
		stored string
	}{
		{
			name:  "relative to relative",
			build: func(*testing.T) *option.Option { return option.NewDateOption(classifier, "") },
			mutate: func(o *option.Option) error {
				return o.Value().(*option.DateValue).SetPeriod(option.PeriodStartThisMonth)
			},
			stored: "'(relative . start-this-month)",
		},
		{
			name:  "absolute to absolute",
			build: absoluteDate(classifier, 1700000000),
			mutate: func(o *option.Option) error {
				return o.Value().(*option.DateValue).SetTime(1600000000)
			},
			stored: "'(absolute . 1600000000)",
		},
		{
			name:  "absolute to relative",
			build: absoluteDate(classifier, 1700000000),
			mutate: func(o *option.Option) error {
				return o.Value().(*option.DateValue).SetPeriod(option.PeriodEndThisMonth)
			},
			stored: "'(relative . end-this-month)",
		},
		{
			name: "plot size unit only",
			build: func(*testing.T) *option.Option {
				return option.NewRangeOption(classifier, 50, 10, 100, 1, option.UITypePlotSize)
			},
			mutate: func(o *option.Option) error {
				o.Value().(*option.RangeValue[int]).SetAlternate(true)
				return nil
			},
			stored: "'(pixels . 50)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := book.NewMemoryStore()
			key := book.Key{Section: "General", Name: "Subject"}

			src := New()
			edited := tc.build(t)
			src.MustRegister(edited)
			if err := tc.mutate(edited); err != nil {
				t.Fatalf("mutate: %v", err)
			}
			if err := src.SaveToBook(ctx, store); err != nil {
				t.Fatalf("save: %v", err)
			}
			text, ok, err := store.Load(ctx, key)
			if err != nil || !ok {
				t.Fatalf("expected the edit to be stored, got ok=%v err=%v", ok, err)
			}
			if text != tc.stored {
				t.Fatalf("expected stored %q, got %q", tc.stored, text)
			}

			dst := New()
			reloaded := tc.build(t)
			dst.MustRegister(reloaded)
			if err := dst.LoadFromBook(ctx, store); err != nil {
				t.Fatalf("load: %v", err)
			}
			got, err := dst.Codec().Encode(reloaded, codec.ProfileScheme)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got != tc.stored {
				t.Fatalf("expected reloaded %q, got %q", tc.stored, got)
			}
			if !reloaded.Differs() {
				t.Fatalf("reloaded option must differ from its default")
			}

			// A second save with nothing new must keep the slot.
			if err := dst.SaveToBook(ctx, store); err != nil {
				t.Fatalf("resave: %v", err)
			}
			if _, ok, _ := store.Load(ctx, key); !ok {
				t.Fatalf("resave dropped the slot")
			}
		})
	}
}

func absoluteDate(c option.Classifier, at int64) func(t *testing.T) *option.Option {
	return func(t *testing.T) *option.Option {
		t.Helper()
		o, err := option.NewAbsoluteDateOption(c, "", at)
		if err != nil {
			t.Fatalf("absolute date: %v", err)
		}
		return o
	}
}

// failingStore rejects saves of one key inside a batch.
type failingStore struct {
	*book.MemoryStore
	fail book.Key
}

func (s failingStore) Batch(ctx context.Context, fn func(w book.Writer) error) error {
	return s.MemoryStore.Batch(ctx, func(w book.Writer) error {
		return fn(failingWriter{Writer: w, fail: s.fail})
	})
}

type failingWriter struct {
	book.Writer
	fail book.Key
}

func (w failingWriter) Save(ctx context.Context, key book.Key, value string) error {
	if key == w.fail {
		return errors.New("disk full")
	}
	return w.Writer.Save(ctx, key, value)
}

func TestSaveToBook_BatchFailureKeepsStore(t *testing.T) {
	ctx := context.Background()
	mem := book.NewMemoryStore()
	styleKey := book.Key{Section: "General", Name: "Style"}
	if err := mem.Save(ctx, styleKey, "'fancy"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := failingStore{MemoryStore: mem, fail: book.Key{Section: "General", Name: "Title"}}

	db := buildDB(t)
	title, _ := db.Lookup("General", "Title")
	if err := option.Set(title, "Cash Flow"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.SaveToBook(ctx, store); err == nil {
		t.Fatalf("expected the failing save to surface")
	}
	if text, ok, _ := mem.Load(ctx, styleKey); !ok || text != "'fancy" {
		t.Fatalf("a failed batch must not clear earlier slots, got %q ok=%v", text, ok)
	}
}
