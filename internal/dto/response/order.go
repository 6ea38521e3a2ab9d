package response

import (
	"time"

	"appliance-store/internal/data/entity"

	"github.com/shopspring/decimal"
)

type AddressResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	PhoneNumber string `json:"phone_number,omitempty"`
	IsDefault   bool   `json:"is_default"`
}

type CheckoutSummaryResponse struct {
	Addresses []AddressResponse `json:"saved_addresses"`
	Cart      *CartResponse     `json:"cart"`
}

// PlaceOrderResponse carries the gateway fields the client needs to open the
// payment widget; they are empty for cash on delivery.
type PlaceOrderResponse struct {
	OrderID        string          `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	GatewayOrderID string          `json:"razorpay_order_id,omitempty"`
	GatewayKeyID   string          `json:"razorpay_key_id,omitempty"`
	AmountMinor    int64           `json:"amount,omitempty"`
	Currency       string          `json:"currency,omitempty"`
}

type OrderItemResponse struct {
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Color       string          `json:"color"`
	Size        *string         `json:"size"`
}

// Shown when the line was ordered without a colour choice
const noColor = "N/A"

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	Address         string              `json:"address"`
	DeliveryDate    string              `json:"delivery_date"`
	DeliveryTime    string              `json:"delivery_time"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   string              `json:"payment_status"`
	OrderedItems    string              `json:"ordered_items"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Status          string              `json:"status"`
	StatusClass     string              `json:"status_class"`
	DeliveryMessage string              `json:"delivery_message"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

func AddressToResponse(address *entity.SavedAddress) AddressResponse {
	return AddressResponse{
		ID:          address.ID.String(),
		Name:        address.Name,
		Street:      address.Street,
		City:        address.City,
		State:       address.State,
		Pincode:     address.Pincode,
		PhoneNumber: address.PhoneNumber,
		IsDefault:   address.IsDefault,
	}
}

func OrderToResponse(order *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID.String(),
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		Address:         order.Street + ", " + order.City + ", " + order.State + " - " + order.Pincode,
		DeliveryDate:    order.DeliveryDate.Format("2006-01-02"),
		DeliveryTime:    order.DeliveryTime,
		PaymentMethod:   string(order.PaymentMethod),
		PaymentStatus:   string(order.PaymentStatus),
		OrderedItems:    order.OrderedItems,
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		StatusClass:     order.Status.BadgeClass(),
		DeliveryMessage: order.Status.DeliveryMessage(),
		Items:           make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
	}

	for _, item := range order.Items {
		color := noColor
		if item.Color != nil && *item.Color != "" {
			color = *item.Color
		}
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductName: item.ProductName,
			ImageURL:    item.ProductImageURL,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Color:       color,
			Size:        item.Size,
		})
	}

	return resp
}
