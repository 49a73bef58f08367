package model

import "fmt"

// TradeParty is a party to the invoice: seller, buyer, payee, ship-to, or
// the seller's tax representative. Which fields may or must be set depends
// on the profile and on the role the party plays; see the rule matrix
// below.
type TradeParty struct {
	Name                string
	Address             *PostalAddress
	Email               string
	TaxNumber           string
	VATID               string
	IDs                 []string
	GlobalIDs           []Identifier
	Description         string
	LegalID             *Identifier
	TradingBusinessName string
	Contacts            []TradeContact
}

// TradeContact is contact information attached to a trade party.
type TradeContact struct {
	PersonName     string
	DepartmentName string
	Phone          string
	Email          string
}

// PostalAddress is a postal address. Only the country code is mandatory;
// the MINIMUM profile forbids all other fields.
type PostalAddress struct {
	CountryCode        string // ISO 3166-1 alpha-2
	CountrySubdivision string
	PostCode           string
	City               string
	LineOne            string
	LineTwo            string
	LineThree          string
}

// NewPostalAddress validates and returns the address.
func NewPostalAddress(a PostalAddress) (*PostalAddress, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *PostalAddress) check() error {
	if !ValidCountryCode(a.CountryCode) {
		return NewModelError("country code", fmt.Sprintf("invalid ISO 3166-1 alpha-2 country code: %q", a.CountryCode))
	}
	return nil
}

// hasLocalityFields reports whether any field beyond the country code is
// set. The MINIMUM profile allows the bare country code only.
func (a *PostalAddress) hasLocalityFields() bool {
	return a.CountrySubdivision != "" || a.PostCode != "" || a.City != "" ||
		a.LineOne != "" || a.LineTwo != "" || a.LineThree != ""
}

// The role/profile decision table. For each field, allowed names the
// lowest profile at which a role may carry the field (roles absent from
// the map may never carry it) and required names the lowest profile at
// which the field becomes mandatory. onlyOne caps list fields at a single
// entry for the named roles.
type partyRule struct {
	field    string
	present  func(*TradeParty) bool
	count    func(*TradeParty) int
	allowed  map[Role]Profile
	required map[Role]Profile
	onlyOne  map[Role]bool
}

func allRoles(p Profile) map[Role]Profile {
	return map[Role]Profile{
		RoleSeller: p, RoleBuyer: p, RoleSellerTaxRepresentative: p,
		RoleShipTo: p, RolePayee: p,
	}
}

// partyRules is scanned in order; the first violation wins.
var partyRules = []partyRule{
	{
		field:   "name",
		present: func(p *TradeParty) bool { return p.Name != "" },
		allowed: allRoles(ProfileMinimum),
		required: map[Role]Profile{
			RoleSeller: ProfileMinimum, RoleBuyer: ProfileMinimum,
			RoleSellerTaxRepresentative: ProfileMinimum, RolePayee: ProfileMinimum,
		},
	},
	{
		field:   "description",
		present: func(p *TradeParty) bool { return p.Description != "" },
		allowed: map[Role]Profile{RoleSeller: ProfileEN16931},
	},
	{
		field:   "trading business name",
		present: func(p *TradeParty) bool { return p.TradingBusinessName != "" },
		allowed: map[Role]Profile{RoleSeller: ProfileBasicWL, RoleBuyer: ProfileEN16931},
	},
	{
		field:   "contacts",
		present: func(p *TradeParty) bool { return len(p.Contacts) > 0 },
		allowed: map[Role]Profile{RoleSeller: ProfileEN16931, RoleBuyer: ProfileEN16931},
	},
	{
		field:   "address",
		present: func(p *TradeParty) bool { return p.Address != nil },
		allowed: map[Role]Profile{
			RoleSeller: ProfileMinimum, RoleBuyer: ProfileMinimum,
			RoleSellerTaxRepresentative: ProfileMinimum, RoleShipTo: ProfileMinimum,
		},
		required: map[Role]Profile{
			RoleSeller: ProfileMinimum, RoleBuyer: ProfileBasicWL,
			RoleSellerTaxRepresentative: ProfileMinimum,
		},
	},
	{
		field:   "email",
		present: func(p *TradeParty) bool { return p.Email != "" },
		allowed: map[Role]Profile{RoleSeller: ProfileBasicWL, RoleBuyer: ProfileBasicWL},
	},
	{
		field:   "tax number",
		present: func(p *TradeParty) bool { return p.TaxNumber != "" },
		allowed: map[Role]Profile{RoleSeller: ProfileMinimum, RoleBuyer: ProfileBasicWL},
	},
	{
		field:   "VAT ID",
		present: func(p *TradeParty) bool { return p.VATID != "" },
		allowed: map[Role]Profile{
			RoleSeller: ProfileMinimum, RoleBuyer: ProfileBasicWL,
			RoleSellerTaxRepresentative: ProfileMinimum,
		},
		required: map[Role]Profile{RoleSellerTaxRepresentative: ProfileMinimum},
	},
	{
		field:   "IDs",
		present: func(p *TradeParty) bool { return len(p.IDs) > 0 },
		count:   func(p *TradeParty) int { return len(p.IDs) },
		allowed: map[Role]Profile{
			RoleSeller: ProfileBasicWL, RoleBuyer: ProfileBasicWL,
			RoleShipTo: ProfileBasicWL, RolePayee: ProfileBasicWL,
		},
		onlyOne: map[Role]bool{RoleBuyer: true, RoleShipTo: true, RolePayee: true},
	},
	{
		field:   "global IDs",
		present: func(p *TradeParty) bool { return len(p.GlobalIDs) > 0 },
		count:   func(p *TradeParty) int { return len(p.GlobalIDs) },
		allowed: map[Role]Profile{
			RoleSeller: ProfileBasicWL, RoleBuyer: ProfileBasicWL,
			RoleShipTo: ProfileBasicWL, RolePayee: ProfileBasicWL,
		},
		onlyOne: map[Role]bool{RoleBuyer: true, RoleShipTo: true, RolePayee: true},
	},
	{
		field:   "legal ID",
		present: func(p *TradeParty) bool { return p.LegalID != nil },
		allowed: map[Role]Profile{
			RoleSeller: ProfileMinimum, RoleBuyer: ProfileMinimum,
			RolePayee: ProfileBasicWL,
		},
	},
}

// validate checks the party against the rule matrix for the given profile
// and role, failing on the first violated rule.
func (p *TradeParty) validate(profile Profile, role Role) error {
	for _, rule := range partyRules {
		min, legal := rule.allowed[role]
		if req, ok := rule.required[role]; ok && profile.AtLeast(req) && !rule.present(p) {
			return errRequired(role, rule.field)
		}
		if !rule.present(p) {
			continue
		}
		if !legal {
			return errForbidden(role, rule.field)
		}
		if !profile.AtLeast(min) {
			return errForbiddenBelow(role, rule.field, min)
		}
		if rule.onlyOne[role] && rule.count(p) > 1 {
			return NewModelError(rule.field, fmt.Sprintf("only one %s %s entry is allowed", role, rule.field))
		}
	}
	if p.Address != nil {
		if err := p.Address.check(); err != nil {
			return err
		}
		if profile == ProfileMinimum && p.Address.hasLocalityFields() {
			return NewModelError("address", fmt.Sprintf("%s address fields beyond the country code are not allowed in the %s profile", role, ProfileMinimum))
		}
	}
	for _, id := range p.GlobalIDs {
		if err := checkGlobalID(id, fmt.Sprintf("%s global ID", role)); err != nil {
			return err
		}
	}
	if p.LegalID != nil && p.LegalID.Scheme != "" && !ValidSchemeCode(p.LegalID.Scheme) {
		return NewModelError("legal ID", fmt.Sprintf("invalid identifier scheme code: %q", p.LegalID.Scheme))
	}
	return nil
}

// checkGlobalID enforces the global-identifier invariant: a value and a
// scheme code from the ISO/IEC 6523 subset are both mandatory.
func checkGlobalID(id Identifier, field string) error {
	if id.Value == "" {
		return NewModelError(field, "identifier value is required")
	}
	if id.Scheme == "" {
		return NewModelError(field, "global identifiers require a scheme code")
	}
	if !ValidSchemeCode(id.Scheme) {
		return NewModelError(field, fmt.Sprintf("invalid identifier scheme code: %q", id.Scheme))
	}
	return nil
}
