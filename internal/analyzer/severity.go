package analyzer

// Severity grades how disruptive a flagged statement is likely to be when
// run against a live database.
type Severity int

const (
	// Safe indicates no danger detected.
	Safe Severity = iota
	// Low indicates a minor concern.
	Low
	// Medium indicates moderate risk with workarounds available.
	Medium
	// High indicates a likely table lock or full rewrite.
	High
	// Critical indicates guaranteed data loss or extended downtime.
	Critical
)

var severityLabels = [...]string{
	Safe:     "SAFE",
	Low:      "LOW",
	Medium:   "MEDIUM",
	High:     "HIGH",
	Critical: "CRITICAL",
}

var severityColors = [...]string{
	Safe:     "\033[32m", // green
	Low:      "\033[36m", // cyan
	Medium:   "\033[33m", // yellow
	High:     "\033[31m", // red
	Critical: "\033[91m", // bright red
}

func (s Severity) valid() bool {
	return s >= Safe && s <= Critical
}

// String returns the uppercase label for the severity level.
func (s Severity) String() string {
	if !s.valid() {
		return "UNKNOWN"
	}

	return severityLabels[s]
}

// Color returns an ANSI color code for terminal output.
func (s Severity) Color() string {
	if !s.valid() {
		return "\033[0m" // reset
	}

	return severityColors[s]
}
