package model

// Outcome is the terminal classification assigned to a report row.
type Outcome string

// Outcome constants, in precedence order. A row receives the first
// outcome whose stage fails; Accepted means every stage passed.
const (
	OutcomeExpiredAlready  Outcome = "EXPIRED_ALREADY"
	OutcomeNoOrderMatch    Outcome = "NO_ORDER_MATCH"
	OutcomeNoSKUMatch      Outcome = "NO_SKU_MATCH"
	OutcomeNoQuantityMatch Outcome = "NO_QUANTITY_MATCH"
	OutcomeDateInvalid     Outcome = "DATE_INVALID"
	OutcomeDateOutOfRange  Outcome = "DATE_OUT_OF_RANGE"
	OutcomeAccepted        Outcome = "ACCEPTED"
)

// Outcomes lists every outcome in precedence order, for stable summary
// rendering.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeExpiredAlready,
		OutcomeNoOrderMatch,
		OutcomeNoSKUMatch,
		OutcomeNoQuantityMatch,
		OutcomeDateInvalid,
		OutcomeDateOutOfRange,
		OutcomeAccepted,
	}
}

// OutcomeColor is the historical highlight color for an outcome, carried
// over from the original report annotations.
type OutcomeColor string

// Highlight colors.
const (
	ColorRed    OutcomeColor = "RED"
	ColorBlue   OutcomeColor = "BLUE"
	ColorYellow OutcomeColor = "YELLOW"
	ColorGreen  OutcomeColor = "GREEN"
	ColorPurple OutcomeColor = "PURPLE"
)

// Color maps an outcome to its highlight color: unmatched identifiers are
// red, quantity mismatches blue, date problems yellow, already-expired
// rows purple, and full matches green.
func (o Outcome) Color() OutcomeColor {
	switch o {
	case OutcomeExpiredAlready:
		return ColorPurple
	case OutcomeNoOrderMatch, OutcomeNoSKUMatch:
		return ColorRed
	case OutcomeNoQuantityMatch:
		return ColorBlue
	case OutcomeDateInvalid, OutcomeDateOutOfRange:
		return ColorYellow
	case OutcomeAccepted:
		return ColorGreen
	default:
		return ColorRed
	}
}
