package domain

// Room describe una sala de soporte a la que se puede derivar al usuario.
type Room struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description" yaml:"description"`
	Category      string `json:"category" yaml:"category"`
	MaxUsers      int    `json:"max_users" yaml:"max_users"`
	RequiresHuman bool   `json:"requires_human" yaml:"requires_human"`
}
