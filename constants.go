package main

const standardMargin = 2

// historyLimit is how many recent transactions the status command shows.
const historyLimit = 5

// Session states
type sessionState int

const (
	loading sessionState = iota
	amountEntry
	strategyReview
	stuffing
	showSummary
	billsView
	configView
	errorState
)

func (ss sessionState) String() string {
	switch ss {
	case loading:
		return "loading"
	case amountEntry:
		return "amount entry"
	case strategyReview:
		return "strategy review"
	case stuffing:
		return "stuffing"
	case showSummary:
		return "summary"
	case billsView:
		return "upcoming bills"
	case configView:
		return "config"
	case errorState:
		return "error"
	}

	return "unknown"
}
