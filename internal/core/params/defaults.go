package params

// Empirically fitted defaults for the Karnataka civil-case corpus. These
// values let the CLI run without an external parameter bundle; production
// runs inject their own Spec.

// Stage vocabulary in lifecycle order.
var DefaultStages = []string{
	"PRE-ADMISSION",
	"ADMISSION",
	"FRAMING OF CHARGES",
	"EVIDENCE",
	"ARGUMENTS",
	"INTERLOCUTORY APPLICATION",
	"SETTLEMENT",
	"ORDERS / JUDGMENT",
	"FINAL DISPOSAL",
	"OTHER",
	"NA",
}

// Terminal stages; reaching one disposes the case.
var DefaultTerminalStages = []string{"FINAL DISPOSAL", "SETTLEMENT", "NA"}

// DefaultCaseTypes lists the civil case-type taxonomy with its observed
// share of filings.
var DefaultCaseTypes = map[string]float64{
	"CRP": 0.201,
	"CA":  0.200,
	"RSA": 0.196,
	"RFA": 0.167,
	"CCC": 0.111,
	"CP":  0.096,
	"CMP": 0.028,
}

// DefaultDailyCapacity is the median observed cause-list length per
// courtroom per day.
const DefaultDailyCapacity = 151

var defaultTransitionBase = map[string]Distribution{
	"PRE-ADMISSION": {
		{Stage: "PRE-ADMISSION", P: 0.55},
		{Stage: "ADMISSION", P: 0.40},
		{Stage: "NA", P: 0.05},
	},
	"ADMISSION": {
		{Stage: "ADMISSION", P: 0.58},
		{Stage: "EVIDENCE", P: 0.10},
		{Stage: "ARGUMENTS", P: 0.08},
		{Stage: "INTERLOCUTORY APPLICATION", P: 0.06},
		{Stage: "ORDERS / JUDGMENT", P: 0.05},
		{Stage: "NA", P: 0.13},
	},
	"FRAMING OF CHARGES": {
		{Stage: "FRAMING OF CHARGES", P: 0.50},
		{Stage: "EVIDENCE", P: 0.35},
		{Stage: "ARGUMENTS", P: 0.10},
		{Stage: "NA", P: 0.05},
	},
	"EVIDENCE": {
		{Stage: "EVIDENCE", P: 0.55},
		{Stage: "ARGUMENTS", P: 0.30},
		{Stage: "ORDERS / JUDGMENT", P: 0.08},
		{Stage: "SETTLEMENT", P: 0.04},
		{Stage: "NA", P: 0.03},
	},
	"ARGUMENTS": {
		{Stage: "ARGUMENTS", P: 0.45},
		{Stage: "ORDERS / JUDGMENT", P: 0.35},
		{Stage: "FINAL DISPOSAL", P: 0.12},
		{Stage: "NA", P: 0.08},
	},
	"INTERLOCUTORY APPLICATION": {
		{Stage: "INTERLOCUTORY APPLICATION", P: 0.50},
		{Stage: "ADMISSION", P: 0.20},
		{Stage: "EVIDENCE", P: 0.15},
		{Stage: "ARGUMENTS", P: 0.10},
		{Stage: "NA", P: 0.05},
	},
	"ORDERS / JUDGMENT": {
		{Stage: "ORDERS / JUDGMENT", P: 0.40},
		{Stage: "FINAL DISPOSAL", P: 0.42},
		{Stage: "SETTLEMENT", P: 0.05},
		{Stage: "NA", P: 0.13},
	},
	"OTHER": {
		{Stage: "OTHER", P: 0.60},
		{Stage: "ADMISSION", P: 0.15},
		{Stage: "ARGUMENTS", P: 0.10},
		{Stage: "NA", P: 0.15},
	},
}

var defaultDurations = map[string]Duration{
	"PRE-ADMISSION":             {MedianDays: 21, P90Days: 90},
	"ADMISSION":                 {MedianDays: 92, P90Days: 420},
	"FRAMING OF CHARGES":        {MedianDays: 45, P90Days: 180},
	"EVIDENCE":                  {MedianDays: 120, P90Days: 540},
	"ARGUMENTS":                 {MedianDays: 60, P90Days: 300},
	"INTERLOCUTORY APPLICATION": {MedianDays: 35, P90Days: 210},
	"ORDERS / JUDGMENT":         {MedianDays: 30, P90Days: 150},
	"OTHER":                     {MedianDays: 60, P90Days: 365},
}

// Per-stage adjournment rates with small per-type adjustments observed in
// the corpus (contempt petitions churn faster, second appeals slower).
var defaultAdjournmentBase = map[string]float64{
	"PRE-ADMISSION":             0.30,
	"ADMISSION":                 0.38,
	"FRAMING OF CHARGES":        0.40,
	"EVIDENCE":                  0.45,
	"ARGUMENTS":                 0.42,
	"INTERLOCUTORY APPLICATION": 0.36,
	"ORDERS / JUDGMENT":         0.28,
	"OTHER":                     0.35,
}

var defaultTypeAdjShift = map[string]float64{
	"CRP": 0.00,
	"CA":  0.01,
	"RSA": 0.04,
	"RFA": 0.03,
	"CCC": -0.05,
	"CP":  -0.02,
	"CMP": -0.03,
}

var defaultTypeStats = map[string]TypeStats{
	"CRP": {MedianHearings: 4, MedianGapDays: 14, MedianDisposalDays: 180},
	"CA":  {MedianHearings: 6, MedianGapDays: 24, MedianDisposalDays: 390},
	"RSA": {MedianHearings: 9, MedianGapDays: 38, MedianDisposalDays: 695},
	"RFA": {MedianHearings: 8, MedianGapDays: 31, MedianDisposalDays: 540},
	"CCC": {MedianHearings: 3, MedianGapDays: 21, MedianDisposalDays: 93},
	"CP":  {MedianHearings: 5, MedianGapDays: 26, MedianDisposalDays: 260},
	"CMP": {MedianHearings: 3, MedianGapDays: 18, MedianDisposalDays: 120},
}

// DefaultSpec returns the built-in parameter bundle.
func DefaultSpec() Spec {
	transitions := make(map[string]map[string]Distribution, len(defaultTransitionBase))
	adjournment := make(map[string]map[string]float64, len(defaultAdjournmentBase))
	for stage, base := range defaultTransitionBase {
		transitions[stage] = make(map[string]Distribution, len(DefaultCaseTypes))
		for caseType := range DefaultCaseTypes {
			transitions[stage][caseType] = base
		}
	}
	for stage, p := range defaultAdjournmentBase {
		adjournment[stage] = make(map[string]float64, len(DefaultCaseTypes))
		for caseType := range DefaultCaseTypes {
			v := p + defaultTypeAdjShift[caseType]
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			adjournment[stage][caseType] = v
		}
	}
	return Spec{
		Stages:         DefaultStages,
		TerminalStages: DefaultTerminalStages,
		AdmissionStage: "ADMISSION",
		Transitions:    transitions,
		Durations:      defaultDurations,
		Adjournment:    adjournment,
		TypeStats:      defaultTypeStats,
		Capacity:       Capacity{Nominal: DefaultDailyCapacity, P90: 220},
	}
}

// Default returns validated tables built from DefaultSpec. It panics only
// if the built-in spec itself is inconsistent, which is a programming error.
func Default() *Tables {
	t, err := New(DefaultSpec())
	if err != nil {
		panic(err)
	}
	return t
}
