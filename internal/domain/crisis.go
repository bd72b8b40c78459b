package domain

// Severity indica la gravedad de una regla de crisis.
type Severity string

const (
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// CrisisRule se carga una vez al arrancar y nunca se modifica.
type CrisisRule struct {
	ID              string   `json:"id" yaml:"id"`
	CrisisType      string   `json:"crisis_type" yaml:"crisis_type"`
	Triggers        []string `json:"triggers" yaml:"triggers"`
	Severity        Severity `json:"severity" yaml:"severity"`
	Resources       []string `json:"resources" yaml:"resources"`
	EscalateToHuman bool     `json:"escalate_to_human" yaml:"escalate_to_human"`
}
