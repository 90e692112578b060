package report

import (
	"fmt"
	"strings"

	"github.com/adilezz/botbourse/internal/contracts"
)

// Formatter renders pipeline results as Markdown messages for the
// notification channel. Output text is French, matching the audience.
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

var kindEmojis = map[contracts.ReportKind]string{
	contracts.ReportDaily:   "📅",
	contracts.ReportWeekly:  "📆",
	contracts.ReportMonthly: "📊",
}

// FormatRun renders the full run report: opportunities with their
// suggested allocations, market alerts, and the monthly recap.
func (f *Formatter) FormatRun(run contracts.RunReport) string {
	var msg []string

	title := fmt.Sprintf("%s **RAPPORT %s - %s**",
		kindEmojis[run.Kind], run.Kind, run.Date.Format("02/01/2006"))
	msg = append(msg, title, "")

	msg = append(msg, fmt.Sprintf("💡 **Top Opportunités (Budget: %.0f MAD)**", run.Budget))
	if len(run.Opportunities) == 0 {
		msg = append(msg, "😴 Marché incertain ou trop cher. Gardez votre cash.")
	} else {
		allocBySymbol := make(map[string]contracts.Allocation, len(run.Allocations))
		for _, a := range run.Allocations {
			allocBySymbol[a.Symbol] = a
		}

		for _, opp := range run.Opportunities {
			msg = append(msg, "", fmt.Sprintf("🚀 **%s (%s)**", opp.Name, opp.Symbol))
			if alloc, ok := allocBySymbol[opp.Symbol]; ok && alloc.Shares > 0 {
				msg = append(msg, fmt.Sprintf("   🎯 Acheter **%d** à %.2f MAD", alloc.Shares, alloc.Price))
			} else {
				msg = append(msg, fmt.Sprintf("   🎯 Cours actuel : %.2f MAD", opp.Close))
			}
			if len(opp.Reasons) > 0 {
				msg = append(msg, fmt.Sprintf("   ℹ️ %s", strings.Join(opp.Reasons, ", ")))
			}
		}
	}

	if len(run.Risks) > 0 {
		msg = append(msg, "", "⚠️ **Alertes Marché**")
		for _, r := range run.Risks {
			msg = append(msg, formatRisk(r))
		}
	}

	if run.Kind == contracts.ReportMonthly {
		msg = append(msg, "", "------------------", "📈 **Bilan Mensuel**")
		msg = append(msg, fmt.Sprintf("💼 Valeur Portefeuille estimée : %.2f MAD", run.PortfolioValue))
		msg = append(msg, "✅ N'oubliez pas d'injecter votre épargne mensuelle.")
	}

	msg = append(msg, "", "🤖 *BotBourse*")
	return strings.Join(msg, "\n")
}

func formatRisk(r contracts.RiskAlert) string {
	name := r.Name
	if name == "" {
		name = r.Symbol
	}
	if r.DayChangePct < 0 && r.DayChangePct <= r.WeekChangePct {
		return fmt.Sprintf("🔻 %s a chuté de %.2f%% aujourd'hui.", name, r.DayChangePct)
	}
	return fmt.Sprintf("🔻 %s a perdu %.2f%% sur une semaine.", name, r.WeekChangePct)
}

// FormatSyncFailure renders the fatal-error notification sent when a run
// aborts before producing a report.
func (f *Formatter) FormatSyncFailure(err error) string {
	return fmt.Sprintf("🚨 **ERREUR SYNCHRONISATION**\n\nLa mise à jour du marché a échoué :\n`%v`\n\nLe rapport du jour n'a pas été généré.", err)
}
