package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CartUpdateRequest struct {
	Items []CartItem `json:"items"`
}
