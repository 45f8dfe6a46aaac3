package option

// Classifier carries the identity shared by every option kind. Its fields are
// fixed at construction.
type Classifier struct {
	section   string
	name      string
	sortTag   string
	docString string
}

// NewClassifier builds the identity for an option.
func NewClassifier(section, name, sortTag, docString string) Classifier {
	return Classifier{
		section:   section,
		name:      name,
		sortTag:   sortTag,
		docString: docString,
	}
}

func (c Classifier) Section() string   { return c.section }
func (c Classifier) Name() string      { return c.name }
func (c Classifier) SortTag() string   { return c.sortTag }
func (c Classifier) DocString() string { return c.docString }

// base is embedded by every value kind: identity plus the UI binding.
type base struct {
	Classifier
	uiType UIType
	uiItem UIItemID
}

func newBase(c Classifier, ui UIType, fallback UIType) base {
	if ui == "" {
		ui = fallback
	}
	return base{Classifier: c, uiType: ui}
}

// UIType returns the control tag.
func (b *base) UIType() UIType { return b.uiType }

// UIItem returns the attached control, or NoUIItem.
func (b *base) UIItem() UIItemID { return b.uiItem }

// SetUIItem attaches a control. Internal options refuse controls.
func (b *base) SetUIItem(id UIItemID) error {
	if b.uiType == UITypeInternal {
		return b.errorf(ErrLogic, "internal option, setting the UI item forbidden")
	}
	b.uiItem = id
	return nil
}

// ClearUIItem drops the reference to the control, typically when the UI layer
// destroys it.
func (b *base) ClearUIItem() { b.uiItem = NoUIItem }

// MakeInternal downgrades the option to the internal UI type. It cannot be
// undone and fails while a control is attached.
func (b *base) MakeInternal() error {
	if b.uiItem != NoUIItem {
		return b.errorf(ErrLogic, "option has a UI element, can't be internal")
	}
	b.uiType = UITypeInternal
	return nil
}
