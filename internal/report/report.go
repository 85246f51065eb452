// Package report renders evaluation results and safety snapshots for the
// terminal.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/serum"
	"github.com/san-kum/physiosim/internal/stack"
	"github.com/san-kum/physiosim/internal/systemic"
)

const barWidth = 20

func row(label, value string) string {
	return Label.Render(fmt.Sprintf("%-18s", label)) + " " + value
}

// Evaluation renders per-compound scores, interaction totals and warnings.
func Evaluation(res stack.Result) string {
	var b strings.Builder
	b.WriteString(Header.Render("Stack evaluation") + "\n")

	for _, c := range res.Compounds {
		line := fmt.Sprintf("%-14s %7.1f mg  benefit %5.2f ±%.2f  risk %5.2f ±%.2f",
			c.Compound, c.Dose, c.Benefit, c.BenefitCI, c.Risk, c.RiskCI)
		if c.RiskMeta.BeyondEvidence {
			line += Bad.Render("  beyond evidence")
		} else if c.BenefitMeta.NearingPlateau {
			line += Warn.Render("  plateau")
		}
		b.WriteString(line + "\n")
	}

	if len(res.DimensionTotals) > 0 {
		b.WriteString("\n" + Title.Render("Interactions") + "\n")
		for _, d := range pkpd.Dimensions() {
			v, ok := res.DimensionTotals[d]
			if !ok {
				continue
			}
			style := Good
			if pol, _ := pkpd.DimensionPolarity(d); pol == pkpd.Risk {
				style = Warn
			}
			b.WriteString(row(string(d), style.Render(fmt.Sprintf("%+.2f", v))) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(row("benefit", Value.Render(fmt.Sprintf("%.2f", res.WeightedBenefit))) + "\n")
	b.WriteString(row("risk", Value.Render(fmt.Sprintf("%.2f", res.WeightedRisk))) + "\n")
	b.WriteString(row("net score", Value.Render(fmt.Sprintf("%.2f", res.NetScore))) + "\n")
	b.WriteString(row("ratio", Value.Render(fmt.Sprintf("%.2f", res.Ratio))) + "\n")
	if res.AvalancheMultiplier > 1 {
		b.WriteString(row("avalanche", Bad.Render(fmt.Sprintf("x%.2f at %.0f mg/wk", res.AvalancheMultiplier, res.WeeklyLoadMg))) + "\n")
	}
	if p := res.Penalties; p != nil {
		if g := p.Global(); g > 0 {
			b.WriteString(row("protocol", Bad.Render(fmt.Sprintf("+%.2f", g))) + "\n")
		}
		if p.Suppression > 0 {
			b.WriteString(row("recovery", Warn.Render(fmt.Sprintf("+%.2f", p.Suppression))) + "\n")
		}
		if p.TimeFactor > 1 {
			b.WriteString(row("duration", Warn.Render(fmt.Sprintf("x%.2f", p.TimeFactor))) + "\n")
		}
	}

	if len(res.Warnings) > 0 {
		b.WriteString("\n" + Title.Render("Warnings") + "\n")
		for _, w := range res.Warnings {
			b.WriteString(Severity(string(w.Level)).Render("• "+w.Message) + "\n")
		}
	}
	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// Snapshot renders organ load, labs, gains and the CNS profile.
func Snapshot(snap systemic.Snapshot) string {
	var b strings.Builder
	b.WriteString(Header.Render("Systemic load") + "\n")

	l := snap.Load
	for _, a := range []struct {
		name string
		v    float64
	}{
		{"cardiovascular", l.Cardio},
		{"hepatic", l.Hepatic},
		{"renal", l.Renal},
		{"neuro", l.Neuro},
		{"total", l.Total},
	} {
		b.WriteString(row(a.name, Bar(a.v, 100, barWidth)+fmt.Sprintf(" %5.1f", a.v)) + "\n")
	}
	status := Good.Render(l.Dominant)
	if l.IsCritical {
		status = Bad.Render("CRITICAL " + l.Dominant)
	}
	b.WriteString(row("dominant", status) + "\n")
	if snap.Support.Hepatic > 0 || snap.Support.Renal > 0 {
		b.WriteString(row("support shield", fmt.Sprintf("hepatic %.0f%%  renal %.0f%%", snap.Support.Hepatic*100, snap.Support.Renal*100)) + "\n")
	}

	b.WriteString("\n" + Title.Render("Projected labs") + "\n")
	flagged := make(map[string]systemic.LabTier, len(snap.LabFlags))
	for _, f := range snap.LabFlags {
		flagged[f.Lab] = f.Tier
	}
	lab := func(key, name, format string, v float64) {
		s := fmt.Sprintf(format, v)
		if tier, ok := flagged[key]; ok {
			s = Severity(string(tier)).Render(s + " " + string(tier))
		}
		b.WriteString(row(name, s) + "\n")
	}
	lb := snap.Labs
	lab("", "total T", "%.0f ng/dL", lb.TotalTestosterone)
	b.WriteString(row("free T", fmt.Sprintf("%.0f (%.0f%%)", lb.FreeTestosterone, lb.FreeTestFraction*100)) + "\n")
	lab("", "estradiol", "%.1f pg/mL", lb.Estradiol)
	lab("hdl", "HDL", "%.1f", lb.HDL)
	lab("ldl", "LDL", "%.1f", lb.LDL)
	lab("alt", "ALT", "%.1f", lb.ALT)
	lab("ast", "AST", "%.1f", lb.AST)
	lab("hematocrit", "hematocrit", "%.1f%%", lb.Hematocrit)
	lab("creatinine", "creatinine", "%.2f", lb.Creatinine)
	lab("", "SHBG", "%.1f nmol/L", lb.SHBG)
	lab("", "prolactin", "%.1f", lb.Prolactin)

	b.WriteString("\n" + Title.Render("Projected gains") + "\n")
	g := snap.Gains
	b.WriteString(row("hypertrophy", Bar(g.Hypertrophy, 10, barWidth)+fmt.Sprintf(" %.1f", g.Hypertrophy)) + "\n")
	b.WriteString(row("strength", Bar(g.Strength, 10, barWidth)+fmt.Sprintf(" %.1f", g.Strength)) + "\n")
	b.WriteString(row("fat loss", Bar(g.FatLoss, 10, barWidth)+fmt.Sprintf(" %.1f", g.FatLoss)) + "\n")
	b.WriteString(row("composite", Value.Render(fmt.Sprintf("%.1f", g.Composite))) + "\n")
	b.WriteString(row("CNS", fmt.Sprintf("%s  drive %.1f  fatigue %.1f", snap.CNS.State, snap.CNS.Drive, snap.CNS.Fatigue)) + "\n")
	b.WriteString(row("efficiency", fmt.Sprintf("%.0f%%", snap.Efficiency*100)))

	return Panel.Render(b.String())
}

// Narrative renders profile talking points.
func Narrative(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Title.Render("Profile notes"))
	for _, l := range lines {
		b.WriteString("\n" + Muted.Render("• "+l))
	}
	return b.String()
}

// SerumMetrics renders a run's metric map in a stable order.
func SerumMetrics(res *serum.Result) string {
	keys := make([]string, 0, len(res.Metrics))
	for k := range res.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([]string, 0, len(keys)+1)
	rows = append(rows, Header.Render("Serum metrics"))
	for _, k := range keys {
		rows = append(rows, row(k, Value.Render(fmt.Sprintf("%.2f", res.Metrics[k]))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
