package cmd

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ynamazon/ynamazon"
)

// negatedBool is the "-no-" form of a boolean flag: setting it to true
// clears the target.
type negatedBool struct{ target *bool }

func (n negatedBool) String() string {
	if n.target == nil {
		return "false"
	}
	return strconv.FormatBool(!*n.target)
}

func (n negatedBool) Set(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*n.target = !v
	return nil
}

func (negatedBool) IsBoolFlag() bool { return true }

// yearsFlag is a comma separated list of order years, two-digit years allowed.
type yearsFlag []int

func (y *yearsFlag) String() string {
	parts := make([]string, len(*y))
	for i, v := range *y {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (y *yearsFlag) Set(value string) error {
	var years []int
	for _, s := range strings.Split(value, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid year %q", s)
		}
		years = append(years, v)
	}
	years, err := ynamazon.NormalizeYears(append([]int(*y), years...))
	if err != nil {
		return err
	}
	*y = years
	return nil
}

// amazonFlags are shared by the commands reading Amazon transactions.
type amazonFlags struct {
	forceRefresh bool
	years        yearsFlag
	days         int
}

func (c *amazonFlags) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.forceRefresh, "force-refresh-amazon", false, "Ignore the cached Amazon transactions and fetch them again")
	f.Var(negatedBool{&c.forceRefresh}, "no-force-refresh-amazon", "Use the cached Amazon transactions when fresh (default)")
	f.Var(&c.years, "years", "Comma separated years of the orders to fetch (default: the current year)")
	f.IntVar(&c.days, "days", ynamazon.DefaultTransactionDays, "Number of days of transactions to fetch")
}

// window returns the fetch window selected by the flags.
func (c *amazonFlags) window(today time.Time) ynamazon.Window {
	w := ynamazon.DefaultWindow(today)
	if len(c.years) > 0 {
		w.OrderYears = c.years
	}
	if c.days > 0 {
		w.TransactionDays = c.days
	}
	return w
}
