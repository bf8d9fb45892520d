package models

// SupplierProfile is one researched supplier as returned by the market
// research agent, indexed for later similarity lookup.
type SupplierProfile struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Domain  string   `json:"domain"`
	Summary string   `json:"summary"`
	Sources []string `json:"sources"`
}
