package main

import (
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/carlmjohnson/be"

	"github.com/rshep3087/stuffer/engine"
)

func TestParseAllocationFlag(t *testing.T) {
	cfg.Currency = "USD"

	tests := []struct {
		name       string
		raw        string
		envelopeID int64
		minor      int64
		wantErr    bool
	}{
		{
			name:       "id and decimal amount",
			raw:        "3=150.00",
			envelopeID: 3,
			minor:      15000,
		},
		{
			name:       "whole amount",
			raw:        "12=40",
			envelopeID: 12,
			minor:      4000,
		},
		{
			name:    "missing separator",
			raw:     "3.150.00",
			wantErr: true,
		},
		{
			name:    "bad envelope id",
			raw:     "abc=150.00",
			wantErr: true,
		},
		{
			name:    "bad amount",
			raw:     "3=lots",
			wantErr: true,
		},
		{
			name:    "negative amount",
			raw:     "3=-10.00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelopeID, amount, err := parseAllocationFlag(tt.raw)
			if tt.wantErr {
				be.Nonzero(t, err)
				return
			}
			be.NilErr(t, err)
			be.Equal(t, tt.envelopeID, envelopeID)
			be.Equal(t, tt.minor, amount.Amount())
		})
	}
}

func TestApplyExtraAllocations(t *testing.T) {
	cfg.Currency = "USD"

	newReviewSession := func(t *testing.T) *engine.Session {
		t.Helper()
		envelopes := []*engine.Envelope{{ID: 3, Name: "Car", Balance: money.New(0, "USD")}}
		session := engine.NewSession("USD", envelopes, nil)
		be.NilErr(t, session.BeginReview(money.New(50000, "USD")))
		return session
	}

	t.Run("known envelope", func(t *testing.T) {
		session := newReviewSession(t)
		be.NilErr(t, applyExtraAllocations(session, []string{"3=150.00"}))

		amount, ok := session.Ledger().Amount(3)
		be.True(t, ok)
		be.Equal(t, int64(15000), amount.Amount())
	})

	t.Run("unknown envelope", func(t *testing.T) {
		session := newReviewSession(t)
		err := applyExtraAllocations(session, []string{"999=50.00"})

		be.Nonzero(t, err)
		_, ok := session.Ledger().Amount(999)
		be.False(t, ok)
	})
}
