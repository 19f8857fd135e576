package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/dcasim/internal/adapters/notify"
	"github.com/alejandrodnm/dcasim/internal/domain"
	"github.com/alejandrodnm/dcasim/internal/simulator"
)

type onceFlags struct {
	symbols  string
	start    string
	end      string
	monthly  float64
	initial  float64
	timeline bool
}

// runOnce ejecuta una simulación desde los flags de línea de comandos y
// la imprime por consola.
func runOnce(ctx context.Context, engine *simulator.Engine, flags onceFlags) error {
	allocations, err := parseAllocations(flags.symbols)
	if err != nil {
		return err
	}

	start, end, err := parseRange(flags.start, flags.end)
	if err != nil {
		return err
	}

	result, err := engine.Simulate(ctx, domain.SimulationRequest{
		Allocations:       allocations,
		StartDate:         start,
		EndDate:           end,
		MonthlyInvestment: flags.monthly,
		InitialInvestment: flags.initial,
	})
	if err != nil {
		return err
	}

	notify.NewConsole(flags.timeline).Print(result)
	return nil
}

// parseAllocations parsea "SYM:PCT,SYM:PCT" en allocations. La validación
// de la suma la hace el motor.
func parseAllocations(s string) ([]domain.Allocation, error) {
	var allocations []domain.Allocation
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		symbol, pctStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("parse allocations: %q is not SYM:PCT", part)
		}
		pct, err := strconv.ParseFloat(pctStr, 64)
		if err != nil {
			return nil, fmt.Errorf("parse allocations: %q: %w", part, err)
		}
		allocations = append(allocations, domain.Allocation{Symbol: symbol, Percentage: pct})
	}
	return allocations, nil
}

// parseRange parsea las fechas de los flags. Sin -start usa 10 años atrás;
// sin -end usa hoy.
func parseRange(startStr, endStr string) (start, end time.Time, err error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)

	end = now
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return start, end, fmt.Errorf("parse -end %q: %w", endStr, err)
		}
	}

	start = end.AddDate(-10, 0, 0)
	if startStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return start, end, fmt.Errorf("parse -start %q: %w", startStr, err)
		}
	}
	return start, end, nil
}
