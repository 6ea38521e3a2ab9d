package request

type CartUpdateRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Action    string `json:"action" validate:"required,oneof=increase decrease remove save_for_later"`
}

type WishlistActionRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Action    string `json:"action" validate:"required,oneof=remove move_to_cart"`
}
