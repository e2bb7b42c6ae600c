package linkactions

type ResolveActionPayload struct {
	URL         string `json:"url" validate:"required,max=8192"`
	LinkClicked bool   `json:"link_clicked"`
}
