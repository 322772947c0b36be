// Package converter implements the rule-driven row transformation engine:
// condition evaluation, transformation rule dispatch, field mapping,
// validation and the per-row conversion pipeline.
package converter

import (
	"strings"

	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// Business fields the condition catalog and rule handlers read.
const (
	FieldCurrencyCosmos = "CURRENCY_Cosmos"
	FieldCurrencyFlex   = "Currency_Flex"
	FieldProductType    = "PRODUCT_TYPE"
	FieldContractStatus = "CONTRACT_STATUS"
	FieldFaceValue      = "FACE_VALUE"
	FieldLcyFaceValue   = "LCY_FACE_VALUE"
	FieldLeafGL         = "LEAF_GL"
	FieldValueDate      = "VALUE_DATE"
	FieldDealDate       = "DEAL_DATE"
)

// PredicateKind tags the structural form of a condition.
type PredicateKind int

const (
	// PredNone marks a condition string that matches no known pattern.
	// It always evaluates to false.
	PredNone PredicateKind = iota
	// PredCurrencyProduct matches CURRENCY_Cosmos against JPY and
	// PRODUCT_TYPE against the {D, G} set.
	PredCurrencyProduct
	// PredFlexCurrency matches Currency_Flex against JPY.
	PredFlexCurrency
	// PredStatusSign matches CONTRACT_STATUS and the sign of FACE_VALUE.
	PredStatusSign
)

// Predicate is the parsed, structural form of a condition string. Predicates
// are constructed once from configuration and evaluated by dispatch on Kind,
// replacing per-row substring checks.
type Predicate struct {
	Kind        PredicateKind
	EqualsJPY   bool   // currency comparison direction
	ProductInDG bool   // PRODUCT_TYPE IN vs NOT IN {D, G}
	Status      string // contract status literal, "Y" or "A"
	NonNegative bool   // FACE_VALUE >= 0 vs < 0
}

// predicate patterns recognized as exact substrings of a condition string.
// Order matters: the first containing pattern wins, mirroring how rule
// documents have always been interpreted.
var predicatePatterns = []struct {
	substr string
	pred   Predicate
}{
	{"CURRENCY_Cosmos == 'JPY' AND PRODUCT_TYPE IN ['D', 'G']", Predicate{Kind: PredCurrencyProduct, EqualsJPY: true, ProductInDG: true}},
	{"CURRENCY_Cosmos == 'JPY' AND PRODUCT_TYPE NOT IN ['D', 'G']", Predicate{Kind: PredCurrencyProduct, EqualsJPY: true}},
	{"CURRENCY_Cosmos != 'JPY' AND PRODUCT_TYPE IN ['D', 'G']", Predicate{Kind: PredCurrencyProduct, ProductInDG: true}},
	{"CURRENCY_Cosmos != 'JPY' AND PRODUCT_TYPE NOT IN ['D', 'G']", Predicate{Kind: PredCurrencyProduct}},
	{"Currency_Flex == 'JPY'", Predicate{Kind: PredFlexCurrency, EqualsJPY: true}},
	{"Currency_Flex != 'JPY'", Predicate{Kind: PredFlexCurrency}},
	{"CONTRACT_STATUS == 'Y' AND FACE_VALUE >= 0", Predicate{Kind: PredStatusSign, Status: "Y", NonNegative: true}},
	{"CONTRACT_STATUS == 'Y' AND FACE_VALUE < 0", Predicate{Kind: PredStatusSign, Status: "Y"}},
	{"CONTRACT_STATUS == 'A' AND FACE_VALUE >= 0", Predicate{Kind: PredStatusSign, Status: "A", NonNegative: true}},
	{"CONTRACT_STATUS == 'A' AND FACE_VALUE < 0", Predicate{Kind: PredStatusSign, Status: "A"}},
}

// ParsePredicate recognizes the condition string against the fixed catalog
// of predicate patterns. An unrecognized condition yields a PredNone
// predicate, which never matches.
func ParsePredicate(condition string) Predicate {
	for _, p := range predicatePatterns {
		if strings.Contains(condition, p.substr) {
			return p.pred
		}
	}
	return Predicate{Kind: PredNone}
}

// Matches evaluates the predicate against a row. Numeric coercion of
// FACE_VALUE follows the safe conversion policy: missing or non-numeric
// values count as 0.
func (p Predicate) Matches(row table.Row) bool {
	switch p.Kind {
	case PredCurrencyProduct:
		isJPY := row.GetString(FieldCurrencyCosmos) == "JPY"
		inDG := productInDG(row.GetString(FieldProductType))
		return isJPY == p.EqualsJPY && inDG == p.ProductInDG
	case PredFlexCurrency:
		isJPY := row.GetString(FieldCurrencyFlex) == "JPY"
		return isJPY == p.EqualsJPY
	case PredStatusSign:
		if row.GetString(FieldContractStatus) != p.Status {
			return false
		}
		nonNegative := row.GetFloat(FieldFaceValue) >= 0
		return nonNegative == p.NonNegative
	default:
		return false
	}
}

func productInDG(productType string) bool {
	return productType == "D" || productType == "G"
}
