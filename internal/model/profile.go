package model

// Profile identifies one of the four modeled Factur-X conformance profiles.
// Profiles form a strict widening chain: every field legal at a profile is
// legal at all higher profiles.
type Profile int

const (
	ProfileMinimum Profile = iota
	ProfileBasicWL
	ProfileBasic
	ProfileEN16931
)

// Guideline URNs as published by FNFE-MPE / FeRD.
const (
	URNMinimum   = "urn:factur-x.eu:1p0:minimum"
	URNBasicWL   = "urn:factur-x.eu:1p0:basicwl"
	URNBasic     = "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic"
	URNEN16931   = "urn:cen.eu:en16931:2017"
	URNExtended  = "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:extended"
	URNXRechnung = "urn:cen.eu:en16931:2017#compliant#urn:xoev-de:kosit:standard:xrechnung_2.1"
)

var profileNames = map[Profile]string{
	ProfileMinimum: "MINIMUM",
	ProfileBasicWL: "BASIC WL",
	ProfileBasic:   "BASIC",
	ProfileEN16931: "EN 16931",
}

var profileURNs = map[Profile]string{
	ProfileMinimum: URNMinimum,
	ProfileBasicWL: URNBasicWL,
	ProfileBasic:   URNBasic,
	ProfileEN16931: URNEN16931,
}

func (p Profile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// URN returns the guideline URN identifying the profile on the wire.
func (p Profile) URN() string {
	return profileURNs[p]
}

// AtLeast reports whether the profile is at least as rich as other.
func (p Profile) AtLeast(other Profile) bool {
	return p >= other
}

// ProfileFromURN maps a guideline URN to the matching profile.
func ProfileFromURN(urn string) (Profile, bool) {
	for p, u := range profileURNs {
		if u == urn {
			return p, true
		}
	}
	return 0, false
}

// Role is the function a trade party plays on an invoice. The validation
// matrix in party.go is keyed by role.
type Role int

const (
	RoleSeller Role = iota
	RoleBuyer
	RoleSellerTaxRepresentative
	RoleShipTo
	RolePayee
)

var roleNames = map[Role]string{
	RoleSeller:                  "seller",
	RoleBuyer:                   "buyer",
	RoleSellerTaxRepresentative: "seller tax representative",
	RoleShipTo:                  "ship-to",
	RolePayee:                   "payee",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}
