// Package codec encodes option values as text and decodes them back. Two
// grammars exist for every kind: the stream profile used for plain text
// streams and the scheme profile used when saving to a book. The caller picks
// the profile; the option kind never implies one.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-bookopts/pkg/entity"
	"github.com/goliatone/go-bookopts/pkg/option"
)

// Profile names a text grammar.
type Profile int

const (
	ProfileStream Profile = iota
	ProfileScheme
)

func (p Profile) String() string {
	switch p {
	case ProfileStream:
		return "stream"
	case ProfileScheme:
		return "scheme"
	default:
		return fmt.Sprintf("profile(%d)", int(p))
	}
}

// ParseProfile resolves "stream" or "scheme".
func ParseProfile(raw string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "stream":
		return ProfileStream, nil
	case "scheme":
		return ProfileScheme, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownProfile, raw)
	}
}

func (p Profile) valid() bool { return p == ProfileStream || p == ProfileScheme }

const (
	unitPercent = "percent"
	unitPixels  = "pixels"

	dateAbsolute = "absolute"
	dateRelative = "relative"

	commodityTag = "commodity-scm"
)

// Codec converts option values to and from text. Entity handles go through
// the Resolver.
type Codec struct {
	resolver Resolver
}

// New returns a codec. resolver may be nil when no entity kinds are encoded.
func New(resolver Resolver) *Codec {
	return &Codec{resolver: resolver}
}

// Encode renders the option's current value in profile p.
func (c *Codec) Encode(o *option.Option, p Profile) (string, error) {
	if !p.valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownProfile, p)
	}
	switch v := o.Value().(type) {
	case *option.PlainValue[string]:
		if p == ProfileScheme {
			if !utf8.ValidString(v.Value()) {
				return "", invalidValue(o, "string is not valid UTF-8")
			}
			return quoteString(v.Value()), nil
		}
		return v.Value(), nil
	case *option.PlainValue[bool]:
		return encodeBool(v.Value()), nil
	case *option.PlainValue[int64]:
		return strconv.FormatInt(v.Value(), 10), nil
	case *option.PlainValue[entity.Entity]:
		return c.encodeEntity(v.Value(), p)
	case *option.ValidatedValue[entity.Entity]:
		return c.encodeEntity(v.Value(), p)
	case *option.RangeValue[int]:
		return encodeRange(strconv.Itoa(v.Value()), v.UIType(), v.IsAlternate(), p), nil
	case *option.RangeValue[float64]:
		return encodeRange(strconv.FormatFloat(v.Value(), 'f', -1, 64), v.UIType(), v.IsAlternate(), p), nil
	case *option.MultichoiceValue:
		return encodeMultichoice(v, p), nil
	case *option.AccountValue:
		return c.encodeAccounts(v.Value(), p)
	case *option.DateValue:
		return encodeDate(v, p), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, o)
	}
}

// Decode parses text in profile p and stores the result through the option's
// setter. Malformed text yields a *ParseError, well-formed text naming an
// unknown key or entity yields option.ErrInvalidValue. Nothing is stored
// unless the whole text parses and validates.
func (c *Codec) Decode(o *option.Option, text string, p Profile) error {
	if !p.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, p)
	}
	// Scheme string literals cannot carry raw bytes, so neither profile
	// accepts them.
	if !utf8.ValidString(text) {
		return invalidValue(o, "text is not valid UTF-8")
	}
	switch v := o.Value().(type) {
	case *option.PlainValue[string]:
		s, err := decodeString(o, text, p)
		if err != nil {
			return err
		}
		return v.SetValue(s)
	case *option.PlainValue[bool]:
		b, err := decodeBool(o, text)
		if err != nil {
			return err
		}
		return v.SetValue(b)
	case *option.PlainValue[int64]:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return newParseErrorf(o, 0, "expected an integer, got %q", text)
		}
		return v.SetValue(n)
	case *option.PlainValue[entity.Entity]:
		e, err := c.decodeEntity(o, text, p)
		if err != nil {
			return err
		}
		return v.SetValue(e)
	case *option.ValidatedValue[entity.Entity]:
		e, err := c.decodeEntity(o, text, p)
		if err != nil {
			return err
		}
		return v.SetValue(e)
	case *option.RangeValue[int]:
		return decodeRange(o, v, text, p, strconv.Atoi)
	case *option.RangeValue[float64]:
		return decodeRange(o, v, text, p, func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})
	case *option.MultichoiceValue:
		return decodeMultichoice(o, v, text, p)
	case *option.AccountValue:
		accounts, err := c.decodeAccounts(o, text, p)
		if err != nil {
			return err
		}
		return v.SetValue(accounts)
	case *option.DateValue:
		return decodeDate(o, v, text, p)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, o)
	}
}

// read parses one scheme datum and converts syntax errors to ParseError.
// offset is subtracted from reported positions when text was wrapped.
func read(o *option.Option, text string, offset int) (datum, error) {
	d, err := readDatum(text)
	if err != nil {
		var se *syntaxError
		if errors.As(err, &se) {
			return datum{}, newParseErrorf(o, max(se.pos-offset, 0), "%s", se.msg)
		}
		return datum{}, err
	}
	return d, nil
}

func encodeBool(b bool) string {
	if b {
		return "#t"
	}
	return "#f"
}

func decodeBool(o *option.Option, text string) (bool, error) {
	switch strings.TrimSpace(text) {
	case "#t":
		return true, nil
	case "#f":
		return false, nil
	default:
		return false, newParseErrorf(o, 0, "expected #t or #f, got %q", text)
	}
}

// decodeString keeps stream text verbatim, spaces included.
func decodeString(o *option.Option, text string, p Profile) (string, error) {
	if p == ProfileStream {
		return text, nil
	}
	d, err := read(o, text, 0)
	if err != nil {
		return "", err
	}
	if d.typ != datumString {
		return "", newParseErrorf(o, d.pos, "expected a string literal")
	}
	return d.text, nil
}

func (c *Codec) encodeEntity(e entity.Entity, p Profile) (string, error) {
	if e == nil {
		if p == ProfileScheme {
			return "#f", nil
		}
		return "", nil
	}
	if com, ok := e.(*entity.Commodity); ok {
		switch {
		case com.IsCurrency() && p == ProfileScheme:
			return quoteString(com.Mnemonic), nil
		case com.IsCurrency():
			return com.Mnemonic, nil
		case p == ProfileScheme:
			return fmt.Sprintf("'(%s %s %s)", commodityTag, quoteString(com.Namespace), quoteString(com.Mnemonic)), nil
		default:
			return com.Namespace + " " + com.Mnemonic, nil
		}
	}
	if c.resolver == nil {
		return "", ErrNoResolver
	}
	text := c.resolver.ToString(e)
	if p == ProfileScheme {
		return quoteString(text), nil
	}
	return text, nil
}

func (c *Codec) decodeEntity(o *option.Option, text string, p Profile) (entity.Entity, error) {
	if p == ProfileStream {
		fields := strings.Fields(text)
		switch len(fields) {
		case 0:
			return nil, nil
		case 1:
			return c.resolveReference(o, fields[0])
		case 2:
			return c.resolveCommodity(o, fields[0], fields[1])
		default:
			return nil, newParseErrorf(o, 0, "expected an entity reference, got %q", text)
		}
	}

	d, err := read(o, text, 0)
	if err != nil {
		return nil, err
	}
	d = d.unquote()
	switch {
	case d.isAtom("#f"):
		return nil, nil
	case d.typ == datumString:
		return c.resolveReference(o, d.text)
	case d.typ == datumList && d.tail == nil && len(d.items) == 3 && d.items[0].isAtom(commodityTag):
		if d.items[1].typ != datumString || d.items[2].typ != datumString {
			return nil, newParseErrorf(o, d.pos, "commodity namespace and mnemonic must be strings")
		}
		return c.resolveCommodity(o, d.items[1].text, d.items[2].text)
	default:
		return nil, newParseErrorf(o, d.pos, "expected an entity reference")
	}
}

// resolveReference treats GUID text as an entity reference and anything else
// as a currency mnemonic.
func (c *Codec) resolveReference(o *option.Option, text string) (entity.Entity, error) {
	if _, err := entity.ParseGUID(text); err != nil {
		return c.resolveCommodity(o, entity.NamespaceCurrency, text)
	}
	return c.resolve(o, text, o.UIType())
}

func (c *Codec) resolveCommodity(o *option.Option, namespace, mnemonic string) (entity.Entity, error) {
	return c.resolve(o, namespace+":"+mnemonic, option.UITypeCommodity)
}

func (c *Codec) resolve(o *option.Option, text string, ui option.UIType) (entity.Entity, error) {
	if c.resolver == nil {
		return nil, ErrNoResolver
	}
	e, err := c.resolver.FromString(text, ui)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", option.ErrInvalidValue, o.Section(), o.Name(), err)
	}
	if e == nil {
		return nil, invalidValue(o, "%q does not name an entity", text)
	}
	return e, nil
}

func encodeRange(number string, ui option.UIType, alternate bool, p Profile) string {
	if ui != option.UITypePlotSize {
		return number
	}
	unit := unitPercent
	if alternate {
		unit = unitPixels
	}
	if p == ProfileScheme {
		return fmt.Sprintf("'(%s . %s)", unit, number)
	}
	return unit + " " + number
}

// decodeRange accepts a bare number for every range and a unit-qualified
// number for plot sizes. A unit switches the alternate flag after the value
// is stored.
func decodeRange[T option.Number](o *option.Option, v *option.RangeValue[T], text string, p Profile, parse func(string) (T, error)) error {
	number, unit, pos, err := splitRange(o, text, p)
	if err != nil {
		return err
	}
	if unit != "" && v.UIType() != option.UITypePlotSize {
		return newParseErrorf(o, 0, "unit %q on a range without units", unit)
	}
	n, err := parse(number)
	if err != nil {
		return newParseErrorf(o, pos, "expected a number, got %q", number)
	}
	if err := v.SetValue(n); err != nil {
		return err
	}
	if unit != "" {
		v.SetAlternate(unit == unitPixels)
	}
	return nil
}

func splitRange(o *option.Option, text string, p Profile) (number, unit string, pos int, err error) {
	if p == ProfileStream {
		fields := strings.Fields(text)
		switch len(fields) {
		case 1:
			return fields[0], "", 0, nil
		case 2:
			if fields[0] != unitPercent && fields[0] != unitPixels {
				return "", "", 0, newParseErrorf(o, 0, "unknown unit %q", fields[0])
			}
			return fields[1], fields[0], strings.Index(text, fields[1]), nil
		default:
			return "", "", 0, newParseErrorf(o, 0, "expected a number, got %q", text)
		}
	}

	d, err := read(o, text, 0)
	if err != nil {
		return "", "", 0, err
	}
	d = d.unquote()
	switch {
	case d.typ == datumAtom:
		return d.text, "", d.pos, nil
	case d.typ == datumList && len(d.items) == 1 && d.tail != nil && d.tail.typ == datumAtom:
		head := d.items[0]
		if !head.isAtom(unitPercent) && !head.isAtom(unitPixels) {
			return "", "", 0, newParseErrorf(o, head.pos, "unknown unit %q", head.text)
		}
		return d.tail.text, head.text, d.tail.pos, nil
	default:
		return "", "", 0, newParseErrorf(o, d.pos, "expected a number or a (unit . number) pair")
	}
}

func encodeMultichoice(v *option.MultichoiceValue, p Profile) string {
	indices := v.Multiple()
	keys := make([]string, 0, len(indices))
	for _, idx := range indices {
		keys = append(keys, v.PermissibleValue(idx))
	}
	if p == ProfileStream {
		return strings.Join(keys, " ")
	}
	if len(keys) == 1 {
		return "'" + keys[0]
	}
	return "'(" + strings.Join(keys, " ") + ")"
}

func decodeMultichoice(o *option.Option, v *option.MultichoiceValue, text string, p Profile) error {
	var keys []string
	if p == ProfileStream {
		keys = strings.Fields(text)
	} else {
		d, err := read(o, text, 0)
		if err != nil {
			return err
		}
		d = d.unquote()
		switch {
		case d.typ == datumAtom || d.typ == datumString:
			keys = []string{d.text}
		case d.typ == datumList && d.tail == nil:
			for _, item := range d.items {
				// Older books quote every key: '('a 'c).
				item = item.unquote()
				if item.typ != datumAtom && item.typ != datumString {
					return newParseErrorf(o, item.pos, "expected a choice key")
				}
				keys = append(keys, item.text)
			}
		default:
			return newParseErrorf(o, d.pos, "expected a choice key or a list of keys")
		}
	}

	indices := make([]int, 0, len(keys))
	for _, key := range keys {
		idx := v.PermissibleValueIndex(key)
		if idx == option.NoIndex {
			return invalidValue(o, "%q is not a permissible value", key)
		}
		indices = append(indices, idx)
	}
	return v.SetMultiple(indices)
}

func (c *Codec) encodeAccounts(accounts []*entity.Account, p Profile) (string, error) {
	if len(accounts) > 0 && c.resolver == nil {
		return "", ErrNoResolver
	}
	refs := make([]string, 0, len(accounts))
	for _, acct := range accounts {
		ref := c.resolver.ToString(acct)
		if p == ProfileScheme {
			ref = quoteString(ref)
		}
		refs = append(refs, ref)
	}
	if p == ProfileStream {
		return strings.Join(refs, " "), nil
	}
	return "'(" + strings.Join(refs, " ") + ")", nil
}

func (c *Codec) decodeAccounts(o *option.Option, text string, p Profile) ([]*entity.Account, error) {
	var refs []string
	if p == ProfileStream {
		refs = strings.Fields(text)
	} else {
		d, err := read(o, text, 0)
		if err != nil {
			return nil, err
		}
		d = d.unquote()
		if d.typ != datumList || d.tail != nil {
			return nil, newParseErrorf(o, d.pos, "expected a list of account references")
		}
		for _, item := range d.items {
			if item.typ != datumString && item.typ != datumAtom {
				return nil, newParseErrorf(o, item.pos, "expected an account reference")
			}
			refs = append(refs, item.text)
		}
	}

	accounts := make([]*entity.Account, 0, len(refs))
	for _, ref := range refs {
		e, err := c.resolve(o, ref, option.UITypeAccountList)
		if err != nil {
			return nil, err
		}
		acct, ok := e.(*entity.Account)
		if !ok {
			return nil, invalidValue(o, "%q is not an account", ref)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

func encodeDate(v *option.DateValue, p Profile) string {
	mode, value := dateRelative, v.Period().String()
	if v.IsAbsolute() {
		mode, value = dateAbsolute, strconv.FormatInt(v.Time(), 10)
	}
	if p == ProfileScheme {
		return fmt.Sprintf("'(%s . %s)", mode, value)
	}
	return mode + " . " + value
}

// decodeDate reads the (mode . value) pair. The stream form is the same pair
// without quote and parentheses.
func decodeDate(o *option.Option, v *option.DateValue, text string, p Profile) error {
	source, shift := text, 0
	if p == ProfileStream {
		source, shift = "("+text+")", 1
	}
	d, err := read(o, source, shift)
	if err != nil {
		return err
	}
	d = d.unquote()
	if d.typ != datumList || len(d.items) != 1 || d.tail == nil || d.tail.typ != datumAtom {
		return newParseErrorf(o, 0, "expected a (mode . value) pair")
	}

	value := d.tail.text
	switch mode := d.items[0]; {
	case mode.isAtom(dateAbsolute):
		t, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return newParseErrorf(o, d.tail.pos-shift, "expected a timestamp, got %q", value)
		}
		return v.SetTime(t)
	case mode.isAtom(dateRelative):
		period, err := option.ParseRelativeDatePeriod(value)
		if err != nil {
			return fmt.Errorf("%w: %s/%s: %v", option.ErrInvalidValue, o.Section(), o.Name(), err)
		}
		return v.SetPeriod(period)
	default:
		return newParseErrorf(o, mode.pos-shift, "unknown date mode %q", mode.text)
	}
}
