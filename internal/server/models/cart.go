package models

type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
