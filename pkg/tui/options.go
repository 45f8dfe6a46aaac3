package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-bookopts/pkg/entity"
	"github.com/goliatone/go-bookopts/pkg/uibind"
	"github.com/goliatone/go-bookopts/pkg/widgets"
)

// Option configures the dialog.
type Option func(*Dialog)

// WithPromptDriver overrides the prompt driver used by the dialog.
func WithPromptDriver(driver PromptDriver) Option {
	return func(d *Dialog) {
		if driver != nil {
			d.driver = driver
		}
	}
}

// WithWidgets replaces the widget registry.
func WithWidgets(registry *widgets.Registry) Option {
	return func(d *Dialog) {
		if registry != nil {
			d.widgets = registry
		}
	}
}

// WithBinder replaces the registry controls are attached through.
func WithBinder(binder *uibind.Registry) Option {
	return func(d *Dialog) {
		if binder != nil {
			d.binder = binder
		}
	}
}

// WithBook supplies the entities offered by entity and account pickers.
func WithBook(book *entity.Book) Option {
	return func(d *Dialog) {
		d.book = book
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dialog) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPageSize limits how many select entries are shown at once.
func WithPageSize(size int) Option {
	return func(d *Dialog) {
		if size > 0 {
			d.pageSize = size
		}
	}
}
