package generator

// Generator tuning constants are centralized here to avoid scattering magic numbers.
// All values are expressed as percentages or small caps unless otherwise noted.

const (
	// InsertRowCountMax is the maximum number of rows in a filler INSERT.
	InsertRowCountMax = 3
	// DeleteWriteShare is the percentage of the write budget that weights DELETE.
	DeleteWriteShare = 25
)

const (
	// TableNameLen is the length of the random suffix in generated table names.
	TableNameLen = 6
	// ColumnCountMin is the minimum number of columns per table.
	ColumnCountMin = 1
)

const (
	// IntLiteralSpan is the width of the integer literal range, centered on zero.
	IntLiteralSpan = 2000
	// FloatLiteralScale is the width of the scaled float range, centered on zero.
	FloatLiteralScale = 200000
	// FloatLiteralDiv scales float literals down to two decimals.
	FloatLiteralDiv = 100.0
	// TextLenMax is the maximum length of generated text values.
	TextLenMax = 10
	// BlobLenMax is the maximum length of generated blob values.
	BlobLenMax = 8
)

const (
	// PredicateColumnsMax caps the comparisons in a matching predicate.
	PredicateColumnsMax = 3
	// PredicateRangeProb is the chance to match a numeric value by range instead of equality.
	PredicateRangeProb = 30
	// PredicateNeqProb is the chance to match a value by inequality with a different literal.
	PredicateNeqProb = 15
	// PredicateNotProb is the chance to wrap a matching term in a double negation.
	PredicateNotProb = 10
	// PredicateOrNoiseProb is the chance to OR a matching predicate with an arbitrary one.
	PredicateOrNoiseProb = 20
	// PredicateOrProb is the chance to use OR instead of AND in arbitrary predicates.
	PredicateOrProb = 30
	// PredicateTrueProb is the chance for an arbitrary predicate to be TRUE.
	PredicateTrueProb = 5
	// PredicateTermsMax caps the comparisons in an arbitrary predicate.
	PredicateTermsMax = 2
	// PredicateDeltaMax bounds the offset used by range predicates.
	PredicateDeltaMax = 10
)

// columnTypeWeights weights integer, float, text and blob columns.
var columnTypeWeights = []int{4, 2, 3, 1}
