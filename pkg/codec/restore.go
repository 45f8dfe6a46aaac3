package codec

import (
	"fmt"

	"github.com/goliatone/go-bookopts/pkg/option"
)

// RestoreForm returns the scheme expression that looks the option up in an
// "options" collection and sets it to its current value.
func (c *Codec) RestoreForm(o *option.Option) (string, error) {
	value, err := c.Encode(o, ProfileScheme)
	if err != nil {
		return "", fmt.Errorf("codec: restore form for %s/%s: %w", o.Section(), o.Name(), err)
	}
	return fmt.Sprintf(
		"(let ((option (gnc:lookup-option options %s %s))) ((lambda (o) (if o ((gnc:option-setter o) %s))) option))",
		quoteString(o.Section()), quoteString(o.Name()), value,
	), nil
}
