// Package rpc declares the InventoryAssistant gRPC service by hand. Messages
// are plain structs carried by a JSON codec, so no generated code is needed.
package rpc

type AskRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Text      string `json:"text"`
}

type AdjustRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Item      string `json:"item"`
	Change    *int   `json:"change"`
}

type InventoryRequest struct{}

type InventoryResponse struct {
	Counts map[string]int `json:"counts"`
}

// Reply is the outbound shape shared by the HTTP, gRPC and MCP surfaces.
type Reply struct {
	RequestID string         `json:"request_id"`
	Outcome   string         `json:"outcome"`
	Counts    map[string]int `json:"counts,omitempty"`
	Prompt    string         `json:"prompt,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Kind      string         `json:"kind,omitempty"`
	Summary   string         `json:"summary,omitempty"`
	Source    string         `json:"source,omitempty"`
	Results   []Result       `json:"results,omitempty"`
}

type Result struct {
	Type    string `json:"type"`
	Item    string `json:"item,omitempty"`
	Delta   int    `json:"delta,omitempty"`
	Applied bool   `json:"applied"`
	Count   *int   `json:"count,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
