package services

import (
	"strings"

	"github.com/cleargraph/crm-engine/pkg/models"
)

// Keyword bags for communication classification. Matching is plain
// substring over the lowercased subject and body.
var (
	dealKeywords = []string{
		"investment", "funding", "round", "valuation", "term sheet",
		"equity", "shares", "capital", "pitch", "deck", "proposal",
		"partnership", "contract", "agreement", "deal",
	}
	introKeywords = []string{
		"introduction", "introduce", "meet", "connect you with",
		"putting you in touch", "cc'ing", "looping in", "wanted to connect",
	}
	personalKeywords = []string{
		"family", "birthday", "christmas", "holiday", "vacation",
		"dinner", "lunch", "kids", "school", "receipt", "order",
	}
	transactionalKeywords = []string{
		"receipt", "invoice", "payment", "order", "confirmation",
		"subscription", "renewal", "stripe", "paypal",
	}
)

// ClassifyCommunication buckets an inbound message by keyword.
// Transactional beats personal beats business: "order" appears in both
// the transactional and personal bags, and the transactional reading
// wins.
func ClassifyCommunication(subject, body string) models.CommunicationAnalysis {
	text := strings.ToLower(subject + " " + body)

	involvesDeal := containsAny(text, dealKeywords)
	involvesIntro := containsAny(text, introKeywords)

	analysis := models.CommunicationAnalysis{
		InvolvesDeal:  involvesDeal,
		InvolvesIntro: involvesIntro,
	}

	switch {
	case containsAny(text, transactionalKeywords):
		analysis.Type = models.CommunicationTransactional
		analysis.Summary = "Transactional email - no business action needed"
	case containsAny(text, personalKeywords):
		analysis.Type = models.CommunicationPersonal
		analysis.Summary = "Personal email - no business action needed"
	case involvesDeal || involvesIntro:
		analysis.Type = models.CommunicationBusiness
		analysis.Summary = "Business email"
		if involvesDeal {
			analysis.Summary += " - may involve deal"
		}
		if involvesIntro {
			analysis.Summary += " - may be an introduction"
		}
	default:
		analysis.Type = models.CommunicationBusiness
		analysis.Summary = "General business communication"
	}
	return analysis
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
