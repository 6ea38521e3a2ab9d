package request

type CheckoutRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Street        string `json:"street" validate:"required,max=200"`
	City          string `json:"city" validate:"required,max=100"`
	State         string `json:"state" validate:"required,max=100"`
	Pincode       string `json:"pincode" validate:"required,pincode"`
	PhoneNumber   string `json:"phone_number" validate:"omitempty,phone"`
	DeliveryDate  string `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	DeliveryTime  string `json:"delivery_time" validate:"required,datetime=15:04"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cod card upi"`
	SaveAddress   bool   `json:"save_address"`
}

type PaymentVerifyRequest struct {
	OrderID        string `json:"order_id" validate:"required,uuid"`
	GatewayOrderID string `json:"razorpay_order_id" validate:"required"`
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
}
