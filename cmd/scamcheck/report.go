package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

const (
	maxShownPatterns  = 6
	maxShownURLIssues = 3
)

var riskBanners = map[models.RiskLevel]string{
	models.RiskHigh:   "HIGH RISK - likely a scam",
	models.RiskMedium: "MEDIUM RISK - be cautious",
	models.RiskLow:    "LOW RISK - appears safe",
}

func printReport(w io.Writer, r *models.AnalysisResult) {
	fmt.Fprintf(w, "%s\n\n", riskBanners[r.Risk])
	fmt.Fprintf(w, "%s\n", r.Explanation)

	if len(r.DetectedPatterns) > 0 {
		shown := r.DetectedPatterns
		if len(shown) > maxShownPatterns {
			shown = shown[:maxShownPatterns]
		}
		fmt.Fprintf(w, "\nDetected patterns: %s", strings.Join(shown, ", "))
		if extra := len(r.DetectedPatterns) - len(shown); extra > 0 {
			fmt.Fprintf(w, " (+%d more)", extra)
		}
		fmt.Fprintln(w)
	}

	if r.URLAnalysis != nil && r.URLAnalysis.IsSuspicious {
		fmt.Fprintln(w, "\nLink warnings:")
		issues := r.URLAnalysis.Issues
		if len(issues) > maxShownURLIssues {
			issues = issues[:maxShownURLIssues]
		}
		for _, issue := range issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}

	if r.UrgencyScore > 0 {
		filled := models.DisplayUrgency(r.UrgencyScore)
		fmt.Fprintf(w, "\nUrgency: [%s%s] %d/%d\n",
			strings.Repeat("#", filled),
			strings.Repeat("-", models.UrgencyDisplayCap-filled),
			filled, models.UrgencyDisplayCap)
	}

	if r.FinancialPressure {
		fmt.Fprintln(w, "\nFinancial pressure detected")
	}

	fmt.Fprintln(w, "\nTips:")
	for _, tip := range r.Tips {
		fmt.Fprintf(w, "  %s\n", tip)
	}
}
