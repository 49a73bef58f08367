package cii

import (
	"fmt"
	"regexp"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/facturx/internal/model"
)

// Element lookups compare the resolved namespace URI and the local name,
// so documents with unconventional prefixes still parse.

func childElements(parent *etree.Element, ns, local string) []*etree.Element {
	var els []*etree.Element
	for _, child := range parent.ChildElements() {
		if child.Tag == local && child.NamespaceURI() == ns {
			els = append(els, child)
		}
	}
	return els
}

func childElement(parent *etree.Element, ns, local string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == local && child.NamespaceURI() == ns {
			return child
		}
	}
	return nil
}

func findText(parent *etree.Element, ns, local string) (string, error) {
	el := childElement(parent, ns, local)
	if el == nil {
		return "", errElementNotFound(local)
	}
	if el.Text() == "" {
		return "", errNoText(local)
	}
	return el.Text(), nil
}

// findTextOptional returns "" without error when the element is absent;
// a present-but-empty element is still a structure error.
func findTextOptional(parent *etree.Element, ns, local string) (string, error) {
	el := childElement(parent, ns, local)
	if el == nil {
		return "", nil
	}
	if el.Text() == "" {
		return "", errNoText(local)
	}
	return el.Text(), nil
}

func findAllTexts(parent *etree.Element, ns, local string) ([]string, error) {
	var texts []string
	for _, el := range childElements(parent, ns, local) {
		if el.Text() == "" {
			return nil, errNoText(local)
		}
		texts = append(texts, el.Text())
	}
	return texts, nil
}

func findIndicator(parent *etree.Element, local string) (bool, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return false, errElementNotFound(local)
	}
	indicator := childElement(el, nsUDT, "Indicator")
	if indicator == nil {
		return false, errElementNotFound(local + "/Indicator")
	}
	switch indicator.Text() {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, NewStructureError(local, fmt.Sprintf("invalid indicator: %q", indicator.Text()))
}

func parseIdentifier(el *etree.Element, schemeRequired bool) (model.Identifier, error) {
	if el.Text() == "" {
		return model.Identifier{}, errNoText(el.Tag)
	}
	scheme := el.SelectAttrValue("schemeID", "")
	if scheme == "" && schemeRequired {
		return model.Identifier{}, NewStructureError(el.Tag, "schemeID attribute not found")
	}
	if scheme != "" && !model.ValidSchemeCode(model.IdentifierSchemeCode(scheme)) {
		return model.Identifier{}, NewStructureError(el.Tag, fmt.Sprintf("invalid identifier scheme code: %q", scheme))
	}
	return model.Identifier{Value: el.Text(), Scheme: model.IdentifierSchemeCode(scheme)}, nil
}

func findAllIdentifiers(parent *etree.Element, local string) ([]model.Identifier, error) {
	var ids []model.Identifier
	for _, el := range childElements(parent, nsRAM, local) {
		id, err := parseIdentifier(el, false)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func findIdentifierOptional(parent *etree.Element, local string) (*model.Identifier, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return nil, nil
	}
	id, err := parseIdentifier(el, false)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func findDecimalOptional(parent *etree.Element, local string) (*decimal.Decimal, error) {
	s, err := findTextOptional(parent, nsRAM, local)
	if err != nil || s == "" {
		return nil, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, NewStructureError(local, fmt.Sprintf("invalid decimal: %q", s))
	}
	return &d, nil
}

// Amounts default to the invoice currency unless a currencyID attribute
// overrides it; this is the inverse of the generator's attribute rule.

func parseAmount(el *etree.Element, defaultCurrency string) (model.Money, error) {
	currency := el.SelectAttrValue("currencyID", "")
	if currency == "" {
		currency = defaultCurrency
	}
	if el.Text() == "" {
		return model.Money{}, errNoText(el.Tag)
	}
	m, err := model.MoneyFromString(el.Text(), currency)
	if err != nil {
		return model.Money{}, NewStructureError(el.Tag, err.Error())
	}
	return m, nil
}

func findAmount(parent *etree.Element, local, defaultCurrency string) (model.Money, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return model.Money{}, errElementNotFound(local)
	}
	return parseAmount(el, defaultCurrency)
}

func findAmountOptional(parent *etree.Element, local, defaultCurrency string) (*model.Money, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return nil, nil
	}
	m, err := parseAmount(el, defaultCurrency)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func findAllAmounts(parent *etree.Element, local, defaultCurrency string) ([]model.Money, error) {
	var amounts []model.Money
	for _, el := range childElements(parent, nsRAM, local) {
		m, err := parseAmount(el, defaultCurrency)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, m)
	}
	return amounts, nil
}

func parseQuantity(el *etree.Element, unitRequired bool) (model.Quantity, error) {
	if el.Text() == "" {
		return model.Quantity{}, errNoText(el.Tag)
	}
	amount, err := decimal.NewFromString(el.Text())
	if err != nil {
		return model.Quantity{}, NewStructureError(el.Tag, fmt.Sprintf("invalid decimal: %q", el.Text()))
	}
	unit := el.SelectAttrValue("unitCode", "")
	if unit == "" && unitRequired {
		return model.Quantity{}, NewStructureError(el.Tag, "unitCode attribute not found")
	}
	if unit != "" && !model.ValidUnitCode(model.UnitCode(unit)) {
		return model.Quantity{}, NewStructureError(el.Tag, fmt.Sprintf("invalid unit code: %q", unit))
	}
	return model.Quantity{Amount: amount, Unit: model.UnitCode(unit)}, nil
}

func findQuantity(parent *etree.Element, local string) (model.Quantity, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return model.Quantity{}, errElementNotFound(local)
	}
	return parseQuantity(el, true)
}

func findQuantityOptional(parent *etree.Element, local string) (*model.Quantity, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return nil, nil
	}
	q, err := parseQuantity(el, false)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

var dateRe = regexp.MustCompile(`^\d{8}$`)

func findDate(parent *etree.Element, local string) (time.Time, error) {
	d, err := findDateOptional(parent, local)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, errElementNotFound(local)
	}
	return *d, nil
}

func findDateOptional(parent *etree.Element, local string) (*time.Time, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return nil, nil
	}
	dts := childElement(el, nsUDT, "DateTimeString")
	if dts == nil {
		return nil, errElementNotFound(local + "/DateTimeString")
	}
	if dts.SelectAttrValue("format", "") != dateFormat {
		return nil, NewStructureError(local, "invalid DateTimeString format")
	}
	text := dts.Text()
	if !dateRe.MatchString(text) {
		return nil, NewStructureError(local, fmt.Sprintf("invalid date: %q", text))
	}
	d, err := time.ParseInLocation("20060102", text, time.UTC)
	if err != nil {
		return nil, NewStructureError(local, fmt.Sprintf("invalid date: %q", text))
	}
	return &d, nil
}

// findRefDocID reads the IssuerAssignedID of a referenced document
// wrapper element, returning "" if the wrapper is absent.
func findRefDocID(parent *etree.Element, local string) (string, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return "", nil
	}
	id, err := findText(el, nsRAM, "IssuerAssignedID")
	if err != nil {
		return "", NewStructureError(local, err.Error())
	}
	return id, nil
}

// Writer helpers used by the generator.

func addText(parent *etree.Element, tag, text string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(text)
	return el
}

func addDate(parent *etree.Element, tag string, date time.Time) {
	el := parent.CreateElement(tag)
	dts := el.CreateElement("udt:DateTimeString")
	dts.CreateAttr("format", dateFormat)
	dts.SetText(date.Format("20060102"))
}

// addAmount writes a monetary amount, attaching a currencyID attribute
// only when the amount's currency differs from the invoice currency.
func addAmount(parent *etree.Element, tag string, m model.Money, invoiceCurrency string) {
	el := parent.CreateElement(tag)
	if m.Currency != invoiceCurrency {
		el.CreateAttr("currencyID", m.Currency)
	}
	el.SetText(m.Text())
}

func addQuantity(parent *etree.Element, tag string, q model.Quantity) {
	el := parent.CreateElement(tag)
	if q.Unit != "" {
		el.CreateAttr("unitCode", string(q.Unit))
	}
	el.SetText(model.DecimalText(q.Amount))
}

func addIdentifier(parent *etree.Element, tag string, id model.Identifier) {
	el := parent.CreateElement(tag)
	if id.Scheme != "" {
		el.CreateAttr("schemeID", string(id.Scheme))
	}
	el.SetText(id.Value)
}

func addEmail(parent *etree.Element, tag, email string) {
	el := parent.CreateElement(tag)
	uri := el.CreateElement("ram:URIID")
	uri.CreateAttr("schemeID", "EM")
	uri.SetText("mailto:" + email)
}

func addRefDoc(parent *etree.Element, tag, id string) {
	if id == "" {
		return
	}
	el := parent.CreateElement(tag)
	addText(el, "ram:IssuerAssignedID", id)
}
