package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleargraph/crm-engine/pkg/models"
)

func TestClassifyCommunication(t *testing.T) {
	tests := []struct {
		name          string
		subject       string
		body          string
		wantType      string
		wantSummary   string
		involvesDeal  bool
		involvesIntro bool
	}{
		{
			name:        "transactional receipt",
			subject:     "Your receipt from Acme",
			body:        "Thanks for your payment.",
			wantType:    models.CommunicationTransactional,
			wantSummary: "Transactional email - no business action needed",
		},
		{
			name:        "personal dinner",
			subject:     "Dinner on Friday?",
			body:        "The kids would love to see you.",
			wantType:    models.CommunicationPersonal,
			wantSummary: "Personal email - no business action needed",
		},
		{
			name:         "deal discussion",
			subject:      "Series A round",
			body:         "Attaching the term sheet for the funding round.",
			wantType:     models.CommunicationBusiness,
			wantSummary:  "Business email - may involve deal",
			involvesDeal: true,
		},
		{
			name:          "introduction",
			subject:       "Wanted to connect",
			body:          "Looping in Sara, you two should talk.",
			wantType:      models.CommunicationBusiness,
			wantSummary:   "Business email - may be an introduction",
			involvesIntro: true,
		},
		{
			name:          "deal and intro together",
			subject:       "Introduction re: funding",
			body:          "Let me introduce you to discuss the investment.",
			wantType:      models.CommunicationBusiness,
			wantSummary:   "Business email - may involve deal - may be an introduction",
			involvesDeal:  true,
			involvesIntro: true,
		},
		{
			name:        "general business",
			subject:     "Quick question",
			body:        "Could you send over the report?",
			wantType:    models.CommunicationBusiness,
			wantSummary: "General business communication",
		},
		{
			// "order" sits in both the transactional and personal bags;
			// the transactional reading must win.
			name:        "order is transactional not personal",
			subject:     "Your order has shipped",
			body:        "Order #1234 is on its way.",
			wantType:    models.CommunicationTransactional,
			wantSummary: "Transactional email - no business action needed",
		},
		{
			name:         "transactional beats deal keywords",
			subject:      "Invoice for consulting agreement",
			body:         "Payment due in 30 days.",
			wantType:     models.CommunicationTransactional,
			wantSummary:  "Transactional email - no business action needed",
			involvesDeal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := ClassifyCommunication(tt.subject, tt.body)
			assert.Equal(t, tt.wantType, analysis.Type)
			assert.Equal(t, tt.wantSummary, analysis.Summary)
			assert.Equal(t, tt.involvesDeal, analysis.InvolvesDeal)
			assert.Equal(t, tt.involvesIntro, analysis.InvolvesIntro)
		})
	}
}

func TestClassifyCommunicationDeterministic(t *testing.T) {
	first := ClassifyCommunication("Funding round", "Pitch deck attached")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyCommunication("Funding round", "Pitch deck attached"))
	}
}
