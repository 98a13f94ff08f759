package transport

// RegisterStoreRequest is the payload for opening a new store.
type RegisterStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateStoreRequest is the payload for changing a store's public info.
type UpdateStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
