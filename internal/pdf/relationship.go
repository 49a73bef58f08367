package pdf

import (
	"github.com/rezonia/facturx/internal/model"
)

// Relationship is the PDF/A-3 AFRelationship tag of the embedded invoice
// file. RelationshipUnknown means the tag was absent or unrecoverable.
type Relationship string

const (
	RelationshipUnknown     Relationship = ""
	RelationshipData        Relationship = "Data"
	RelationshipSource      Relationship = "Source"
	RelationshipAlternative Relationship = "Alternative"
	RelationshipSupplement  Relationship = "Supplement"
)

func (r Relationship) String() string {
	if r == RelationshipUnknown {
		return "Unknown"
	}
	return string(r)
}

// RuleSet selects a national interpretation of the Factur-X attachment
// relationship rules.
type RuleSet string

const (
	// RulesFrance treats the PDF as the original invoice; the XML rides
	// along as data or source, or as an alternative rendition for the
	// profiles that form complete invoices.
	RulesFrance RuleSet = "FR"
	// RulesGermany treats the XML of a complete profile as the
	// authoritative invoice, so it must be flagged as the alternative
	// rendition. Profiles below BASIC are not complete invoices and may
	// only ride along as data or source.
	RulesGermany RuleSet = "DE"
)

func (rs RuleSet) String() string {
	return string(rs)
}

var relationshipRules = map[RuleSet]map[model.Profile][]Relationship{
	RulesFrance: {
		model.ProfileMinimum: {RelationshipData, RelationshipSource},
		model.ProfileBasicWL: {RelationshipData, RelationshipSource},
		model.ProfileBasic:   {RelationshipData, RelationshipSource, RelationshipAlternative},
		model.ProfileEN16931: {RelationshipData, RelationshipSource, RelationshipAlternative},
	},
	RulesGermany: {
		model.ProfileMinimum: {RelationshipData, RelationshipSource},
		model.ProfileBasicWL: {RelationshipData, RelationshipSource},
		model.ProfileBasic:   {RelationshipAlternative},
		model.ProfileEN16931: {RelationshipAlternative},
	},
}

// CheckRelationship verifies the AFRelationship tag against the national
// rule table. An unknown relationship always passes; older writers omit
// the tag entirely.
func CheckRelationship(rules RuleSet, profile model.Profile, rel Relationship) error {
	if rel == RelationshipUnknown {
		return nil
	}
	for _, allowed := range relationshipRules[rules][profile] {
		if rel == allowed {
			return nil
		}
	}
	return &RelationshipError{Rules: rules, Relationship: rel}
}
