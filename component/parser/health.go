package parser

import "strings"

type ASMUsage struct {
	Group   string  `json:"group" yaml:"group"`
	UsedPct float64 `json:"used_pct" yaml:"used_pct"`
	Problem Problem `json:"problem,omitempty" yaml:"problem,omitempty"`
}

// ParseASMUsage reads `group usage_pct` lines. Lines that can not be read are
// kept with a Problem; for a line missing its usage, Group holds the line.
func ParseASMUsage(lines []string) []ASMUsage {
	res := make([]ASMUsage, 0, len(lines))
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			res = append(res, ASMUsage{Group: line, Problem: ProblemMissingValue})
			continue
		}
		usage, ok := parseFloat(parts[1])
		if !ok {
			res = append(res, ASMUsage{Group: parts[0], Problem: ProblemInvalidNumber})
			continue
		}
		res = append(res, ASMUsage{Group: parts[0], UsedPct: usage})
	}
	return res
}

const (
	ManagerActive   = "active"
	ManagerInactive = "inactive"
)

type TransactionManager struct {
	Label  string `json:"label" yaml:"label"`
	Status string `json:"status" yaml:"status"`
}

// ParseTransactionManagers reads lines ending in a status token. The label is
// every token but the last two, or the first token on a two-token line.
func ParseTransactionManagers(lines []string) []TransactionManager {
	res := make([]TransactionManager, 0, len(lines))
	for i, line := range lines {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			skipLine("transaction-manager", i+1, line, "want label and status")
			continue
		}
		label := parts[0]
		if len(parts) > 2 {
			label = strings.Join(parts[:len(parts)-2], " ")
		}
		res = append(res, TransactionManager{
			Label:  label,
			Status: strings.ToLower(parts[len(parts)-1]),
		})
	}
	return res
}

type ModifiedTable struct {
	Owner   string  `json:"owner" yaml:"owner"`
	Table   string  `json:"table" yaml:"table"`
	Inserts int64   `json:"inserts" yaml:"inserts"`
	Updates int64   `json:"updates" yaml:"updates"`
	Deletes int64   `json:"deletes" yaml:"deletes"`
	Total   int64   `json:"total" yaml:"total"`
	Problem Problem `json:"problem,omitempty" yaml:"problem,omitempty"`
}

func (t ModifiedTable) FullName() string {
	return t.Owner + "." + t.Table
}

// ParseModifiedTables reads `owner table inserts updates deletes total`.
// Every line yields a record; unreadable ones carry a Problem.
func ParseModifiedTables(lines []string) []ModifiedTable {
	res := make([]ModifiedTable, 0, len(lines))
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) < 6 {
			res = append(res, ModifiedTable{Problem: ProblemInvalidRow})
			continue
		}
		t := ModifiedTable{Owner: parts[0], Table: parts[1]}
		counts := []*int64{&t.Inserts, &t.Updates, &t.Deletes, &t.Total}
		for j, p := range counts {
			v, ok := parseIntLoose(parts[2+j])
			if !ok {
				t = ModifiedTable{Owner: parts[0], Table: parts[1], Problem: ProblemInvalidNumber}
				break
			}
			*p = v
		}
		res = append(res, t)
	}
	return res
}
