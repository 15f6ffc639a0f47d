package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rosca/committee-forecast/internal/calculation"
	"github.com/rosca/committee-forecast/internal/config"
	"github.com/rosca/committee-forecast/pkg/dateutil"
)

// print_rejoin dumps the rejoin schedule of a forecast, including entries that land past the horizon,
// next to the membership counters of each month.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: print_rejoin <config-file>")
		return
	}
	cfg, err := config.NewInputParser().LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	engine := calculation.NewForecastEngine()
	engine.Workers = 1
	res, err := engine.Run(context.Background(), cfg)
	if err != nil {
		panic(err)
	}

	fmt.Println("Month,Year,Rejoining,Completing,Active,Resting")
	for m := 1; m < len(res.RejoinSchedule); m++ {
		if m > res.Horizon {
			fmt.Printf("%d,%d,%s,,,(past horizon)\n", m, dateutil.YearOfMonth(m), res.RejoinSchedule[m].StringFixed(2))
			continue
		}
		f := res.Flows[m-1]
		fmt.Printf("%d,%d,%s,%s,%s,%s\n", m, f.Year,
			res.RejoinSchedule[m].StringFixed(2), f.Completing.StringFixed(2),
			f.ActiveMembers.StringFixed(2), f.RestingMembers.StringFixed(2))
	}
}
