package report

import (
	"fmt"

	"github.com/adilezz/botbourse/internal/contracts"
)

// Volatility bands for the risk label, in annualized percent.
const (
	lowRiskBelow      = 15.0
	moderateRiskBelow = 25.0
)

// RiskLabel maps annualized volatility (percent) to a reader-facing
// risk level.
func RiskLabel(volatilityPct float64) string {
	switch {
	case volatilityPct < lowRiskBelow:
		return "FAIBLE ✅"
	case volatilityPct < moderateRiskBelow:
		return "MODÉRÉ ⚠️"
	default:
		return "ÉLEVÉ 🚨"
	}
}

// FormatInvestorReport renders the long-term profile of one instrument:
// trend, volatility-based risk level and multi-year growth. Returns an
// explanatory message when the series is too short for the analysis.
func (f *Formatter) FormatInvestorReport(name string, snap *contracts.IndicatorSnapshot) string {
	if snap == nil {
		return "❌ Action introuvable ou historique vide."
	}
	if snap.SMA200 == nil || snap.Volatility == nil {
		return "⚠️ Pas assez d'historique (min 1 an) pour l'analyse investisseur."
	}

	trend := "BAISSIERE 🔴"
	if snap.Close > *snap.SMA200 {
		trend = "HAUSSIERE 🟢"
	}

	volPct := *snap.Volatility * 100

	msg := fmt.Sprintf(
		"📊 **RAPPORT INVESTISSEUR : %s**\n"+
			"🏷 Symbole : #%s\n\n"+
			"💰 **Cours Actuel : %.2f MAD**\n"+
			"📈 Tendance (SMA200) : %s\n\n"+
			"🛡 **Profil de Risque :**\n"+
			"• Volatilité annuelle : %.1f%% (%s)\n",
		name, snap.Symbol, snap.Close, trend, volPct, RiskLabel(volPct))

	if snap.CAGR != nil {
		msg += fmt.Sprintf(
			"\n🚀 **Performance Croissance :**\n"+
				"• CAGR %d ans : %+.2f%% / an\n"+
				"(Rentabilité moyenne annuelle lissée sur %d ans)\n",
			snap.CAGRYears, *snap.CAGR*100, snap.CAGRYears)
	}
	return msg
}

// SimulationResult is the outcome of a buy-and-hold backtest over the
// full stored history of one instrument.
type SimulationResult struct {
	Symbol     string
	Name       string
	Years      float64
	Invested   float64
	StartDate  string
	StartPrice float64
	FinalValue float64
	Gain       float64
	TotalPct   float64
}

// Simulate answers "what if I had invested this amount at the start of
// the stored history": whole shares bought at the first close, valued at
// the last close, uninvested remainder carried in cash.
func Simulate(amount float64, name string, series []contracts.Quote) (*SimulationResult, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("not enough history to simulate")
	}
	first, last := series[0], series[len(series)-1]
	if first.Close <= 0 {
		return nil, fmt.Errorf("invalid starting price")
	}

	shares := int(amount / first.Close)
	rest := amount - float64(shares)*first.Close
	finalValue := float64(shares)*last.Close + rest
	gain := finalValue - amount

	totalPct := 0.0
	if amount > 0 {
		totalPct = gain / amount * 100
	}

	return &SimulationResult{
		Symbol:     first.Symbol,
		Name:       name,
		Years:      last.Date.Sub(first.Date).Hours() / 24 / 365.25,
		Invested:   amount,
		StartDate:  first.Date.Format("02/01/2006"),
		StartPrice: first.Close,
		FinalValue: finalValue,
		Gain:       gain,
		TotalPct:   totalPct,
	}, nil
}

// FormatSimulation renders a simulation result.
func (f *Formatter) FormatSimulation(sim *SimulationResult) string {
	return fmt.Sprintf(
		"💼 **SIMULATION PAPER TRADING**\n"+
			"Action : %s (#%s)\n"+
			"⏳ Durée : %.1f années\n\n"+
			"📥 **Investissement Initial :** %.0f MAD\n"+
			"   (Date : %s à %.2f MAD)\n\n"+
			"🏁 **Valeur Aujourd'hui :** %.2f MAD\n"+
			"💵 Gain/Perte : %+.2f MAD\n"+
			"📊 Performance Totale : **%+.2f%%**",
		sim.Name, sim.Symbol, sim.Years, sim.Invested,
		sim.StartDate, sim.StartPrice, sim.FinalValue, sim.Gain, sim.TotalPct)
}
