package domain

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	FulfillmentDelivery = "delivery"
	FulfillmentPickup   = "pickup"
)

type Order struct {
	ID                  string      `db:"id" json:"id"`
	UserID              string      `db:"user_id" json:"userId"`
	CustomerName        string      `db:"customer_name" json:"customerName"`
	CustomerEmail       string      `db:"customer_email" json:"customerEmail"`
	CustomerPhone       string      `db:"customer_phone" json:"customerPhone,omitempty"`
	Subtotal            float64     `db:"subtotal" json:"subtotal"`
	TaxAmount           float64     `db:"tax_amount" json:"taxAmount"`
	TotalAmount         float64     `db:"total_amount" json:"totalAmount"`
	FulfillmentType     string      `db:"fulfillment_type" json:"fulfillmentType"`
	DeliveryAddress     string      `db:"delivery_address" json:"deliveryAddress,omitempty"`
	PickupTime          string      `db:"pickup_time" json:"pickupTime,omitempty"`
	SpecialInstructions string      `db:"special_instructions" json:"specialInstructions,omitempty"`
	Status              string      `db:"status" json:"status"`
	CreatedAt           string      `db:"created_at" json:"createdAt"`
	UpdatedAt           string      `db:"updated_at" json:"updatedAt,omitempty"`
	Items               []OrderItem `db:"-" json:"items,omitempty"`
}

type OrderItem struct {
	ID          string  `db:"id" json:"id"`
	OrderID     string  `db:"order_id" json:"orderId"`
	ProductID   string  `db:"product_id" json:"productId"`
	ProductName string  `db:"product_name" json:"productName"`
	UnitPrice   float64 `db:"unit_price" json:"unitPrice"`
	Quantity    int     `db:"quantity" json:"quantity"`
	TotalPrice  float64 `db:"total_price" json:"totalPrice"`
}

// InventoryConflict describes one line item that could not be satisfied.
// It is never persisted; it only travels back in a rejection result.
type InventoryConflict struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// SubmitResult is the tagged outcome of an order submission. Exactly one of
// Order, Conflicts, or Err carries the payload; Success discriminates.
type SubmitResult struct {
	Success   bool
	Order     *Order
	Conflicts []InventoryConflict
	Err       string
}
