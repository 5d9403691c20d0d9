package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPlan(t *testing.T) {
	tests := []struct {
		id      string
		ok      bool
		credits int
		price   int64
	}{
		{"Basic", true, 100, 10},
		{"Advanced", true, 500, 50},
		{"Business", true, 5000, 250},
		{"basic", false, 0, 0},
		{"Gold", false, 0, 0},
		{"", false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, ok := LookupPlan(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.credits, p.Credits)
			assert.Equal(t, tt.price, p.Price)
		})
	}
}

func TestPlans_Ordered(t *testing.T) {
	ps := Plans()
	assert.Len(t, ps, 3)
	assert.Equal(t, PlanBasic, ps[0].ID)
	assert.Equal(t, PlanBusiness, ps[2].ID)
}
