package option

import (
	"fmt"
	"strings"
)

// UIType tags which interactive control, if any, presents an option.
type UIType string

const (
	// UITypeInternal marks an option that is never shown in a dialog.
	UITypeInternal    UIType = "internal"
	UITypeBoolean     UIType = "boolean"
	UITypeString      UIType = "string"
	UITypeText        UIType = "text"
	UITypeCurrency    UIType = "currency"
	UITypeCommodity   UIType = "commodity"
	UITypeMultichoice UIType = "multichoice"
	UITypeDate        UIType = "date"
	UITypeAccountList UIType = "account-list"
	UITypeAccountSel  UIType = "account-sel"
	UITypeList        UIType = "list"
	UITypeNumberRange UIType = "number-range"
	// UITypePlotSize is a number range that can be expressed in percent or
	// pixels.
	UITypePlotSize    UIType = "plot-size"
	UITypeColor       UIType = "color"
	UITypeFont        UIType = "font"
	UITypeBudget      UIType = "budget"
	UITypePixmap      UIType = "pixmap"
	UITypeRadioButton UIType = "radiobutton"
	UITypeDateFormat  UIType = "date-format"
	UITypeOwner       UIType = "owner"
	UITypeCustomer    UIType = "customer"
	UITypeVendor      UIType = "vendor"
	UITypeEmployee    UIType = "employee"
	UITypeInvoice     UIType = "invoice"
	UITypeTaxTable    UIType = "tax-table"
	UITypeQuery       UIType = "query"
)

var uiTypes = []UIType{
	UITypeInternal, UITypeBoolean, UITypeString, UITypeText, UITypeCurrency,
	UITypeCommodity, UITypeMultichoice, UITypeDate, UITypeAccountList,
	UITypeAccountSel, UITypeList, UITypeNumberRange, UITypePlotSize, UITypeColor,
	UITypeFont, UITypeBudget, UITypePixmap, UITypeRadioButton, UITypeDateFormat,
	UITypeOwner, UITypeCustomer, UITypeVendor, UITypeEmployee, UITypeInvoice,
	UITypeTaxTable, UITypeQuery,
}

// Valid reports whether t is one of the known UI types.
func (t UIType) Valid() bool {
	for _, known := range uiTypes {
		if known == t {
			return true
		}
	}
	return false
}

// ParseUIType resolves a UI type spelling, case-insensitively.
func ParseUIType(raw string) (UIType, error) {
	candidate := UIType(strings.ToLower(strings.TrimSpace(raw)))
	if !candidate.Valid() {
		return "", fmt.Errorf("option: unknown ui type %q", raw)
	}
	return candidate, nil
}

// UIItemID addresses a UI control held in a registry owned by the UI layer.
// The option never owns the control; NoUIItem means nothing is attached.
type UIItemID uint64

// NoUIItem is the zero UIItemID.
const NoUIItem UIItemID = 0
