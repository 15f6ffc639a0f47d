package main

import (
	"context"
	"fmt"
	"os"

	calc "github.com/rosca/committee-forecast/internal/calculation"
	"github.com/rosca/committee-forecast/internal/config"
	"github.com/shopspring/decimal"
)

// debug_break_even prints cumulative profit per month for each configuration given,
// side by side, and the month each one first breaks even.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_break_even <config-file> [config-file...]")
		return
	}
	p := config.NewInputParser()
	engine := calc.NewForecastEngine()

	var names []string
	var cumulative [][]decimal.Decimal
	minLen := -1
	for _, f := range os.Args[1:] {
		cfg, err := p.LoadFromFile(f)
		if err != nil {
			panic(err)
		}
		res, err := engine.Run(context.Background(), cfg)
		if err != nil {
			panic(err)
		}
		running := decimal.Zero
		series := make([]decimal.Decimal, 0, len(res.Monthly))
		for _, ms := range res.Monthly {
			running = running.Add(ms.Profit)
			series = append(series, running)
		}
		names = append(names, res.Name)
		cumulative = append(cumulative, series)
		if minLen == -1 || len(series) < minLen {
			minLen = len(series)
		}
	}
	if minLen <= 0 {
		fmt.Println("no forecast data")
		return
	}

	// Header
	header := "Month"
	for i := range names {
		header += fmt.Sprintf(",S%d_CumulativeProfit", i+1)
	}
	fmt.Println(header)

	breakEven := make([]int, len(names))
	for m := 0; m < minLen; m++ {
		line := fmt.Sprintf("%d", m+1)
		for i, series := range cumulative {
			line += "," + series[m].StringFixed(2)
			if breakEven[i] == 0 && series[m].IsPositive() {
				breakEven[i] = m + 1
			}
		}
		fmt.Println(line)
	}

	fmt.Println()
	for i, name := range names {
		if breakEven[i] == 0 {
			fmt.Printf("S%d %s: never breaks even within %d months\n", i+1, name, minLen)
			continue
		}
		fmt.Printf("S%d %s: breaks even in month %d\n", i+1, name, breakEven[i])
	}
}
