package core

// Instance is one virtual machine under diagnosis.
type Instance struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Zone   string            `json:"zone"`
	Labels map[string]string `json:"labels,omitempty"`
}
