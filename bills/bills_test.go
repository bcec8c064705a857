package bills

import (
	"testing"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/carlmjohnson/be"

	"github.com/rshep3087/stuffer/engine"
)

func TestNew(t *testing.T) {
	model := New(Colors{Primary: "#ff0000"})

	be.Nonzero(t, model.upcoming)
	columns := model.upcoming.Columns()
	be.Equal(t, 4, len(columns))
	be.Equal(t, "Bill", columns[0].Title)
	be.Equal(t, "Envelope", columns[1].Title)
	be.Equal(t, "Due", columns[2].Title)
	be.Equal(t, "Amount", columns[3].Title)
}

func TestSetFocus(t *testing.T) {
	model := New(Colors{Primary: "#ff0000"})

	model.SetFocus(true)
	be.Nonzero(t, model)

	model.SetFocus(false)
	be.Nonzero(t, model)
}

func TestSetBills(t *testing.T) {
	envelopeID := int64(1)
	due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		bills []engine.Bill
	}{
		{
			name:  "empty bills",
			bills: []engine.Bill{},
		},
		{
			name: "single bill",
			bills: []engine.Bill{
				{
					Name:       "Electric",
					EnvelopeID: &envelopeID,
					Amount:     money.New(9500, "USD"),
					DueDate:    due,
				},
			},
		},
		{
			name: "bill with no envelope",
			bills: []engine.Bill{
				{
					Name:    "Water",
					Amount:  money.New(4200, "USD"),
					DueDate: due,
				},
				{
					Name:       "Internet",
					EnvelopeID: &envelopeID,
					Amount:     money.New(8000, "USD"),
					DueDate:    due.AddDate(0, 0, 14),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := New(Colors{Primary: "#ff0000"})
			model.SetEnvelopes([]*engine.Envelope{
				{ID: envelopeID, Name: "Utilities", Balance: money.New(0, "USD")},
			})

			model.SetBills(tt.bills)

			rows := model.upcoming.Rows()
			be.Equal(t, len(tt.bills), len(rows))
			for i, b := range tt.bills {
				be.Equal(t, b.Name, rows[i][0])
				if b.EnvelopeID != nil {
					be.Equal(t, "Utilities", rows[i][1])
				} else {
					be.Equal(t, "", rows[i][1])
				}
			}
		})
	}
}

func TestInit(t *testing.T) {
	model := New(Colors{Primary: "#ff0000"})
	if cmd := model.Init(); cmd != nil {
		t.Errorf("expected nil command, got %v", cmd)
	}
}
