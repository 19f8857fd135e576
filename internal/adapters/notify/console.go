package notify

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

// Console imprime el resultado de una simulación en formato legible:
// resumen, desglose por índice y, opcionalmente, el timeline mes a mes.
type Console struct {
	out      io.Writer
	timeline bool
}

// NewConsole crea un renderer que escribe a stdout.
func NewConsole(timeline bool) *Console {
	return &Console{out: os.Stdout, timeline: timeline}
}

// NewConsoleWriter crea un renderer para tests.
func NewConsoleWriter(w io.Writer, timeline bool) *Console {
	return &Console{out: w, timeline: timeline}
}

// Print imprime el resultado completo en el modo configurado.
func (c *Console) Print(result *domain.SimulationResult) {
	c.printSummary(result.Summary, len(result.Timeline))
	c.printByIndex(result)
	if c.timeline {
		c.printTimeline(result.Timeline)
	}
}

// printSummary imprime el bloque de métricas agregadas.
func (c *Console) printSummary(s domain.Summary, months int) {
	fmt.Fprintf(c.out, "\nDCA simulation | %d monthly contributions\n", months)
	fmt.Fprintf(c.out, "  invested:  $%.2f\n", s.TotalInvested)
	fmt.Fprintf(c.out, "  value:     $%.2f\n", s.FinalValue)
	fmt.Fprintf(c.out, "  return:    %+.2f%%\n", s.TotalReturn)
	fmt.Fprintf(c.out, "  CAGR:      %+.2f%%\n", s.CAGR)
	fmt.Fprintf(c.out, "  max DD:    %.2f%%\n", s.MaxDrawdown)
}

// printByIndex imprime la tabla con el desglose final por índice.
func (c *Console) printByIndex(result *domain.SimulationResult) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Index", "Invested", "Value", "Shares", "Return")

	for _, symbol := range sortedSymbols(result.ByIndex) {
		perf := result.ByIndex[symbol]
		var ret float64
		if perf.Invested > 0 {
			ret = (perf.Value - perf.Invested) / perf.Invested * 100
		}
		table.Append(
			symbol,
			fmt.Sprintf("$%.2f", perf.Invested),
			fmt.Sprintf("$%.2f", perf.Value),
			fmt.Sprintf("%.4f", perf.Shares),
			fmt.Sprintf("%+.2f%%", ret),
		)
	}
	table.Render()
}

// sortedSymbols devuelve las claves del desglose en orden alfabético,
// para que la tabla sea determinista.
func sortedSymbols(byIndex map[string]domain.IndexPerformance) []string {
	symbols := make([]string, 0, len(byIndex))
	for s := range byIndex {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// printTimeline imprime la evolución mensual completa.
func (c *Console) printTimeline(timeline []domain.TimelinePoint) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Month", "Invested", "Value", "Return")

	for _, p := range timeline {
		table.Append(
			p.Date.Format("2006-01"),
			fmt.Sprintf("$%.2f", p.Invested),
			fmt.Sprintf("$%.2f", p.Value),
			fmt.Sprintf("%+.2f%%", p.Return),
		)
	}
	table.Render()
}
