package api

import "encoding/json"

// Wire types for the packing backend. Everything is validated and
// typed here so nothing dict-shaped leaks past the client boundary.

// User is the authenticated operator.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse is the token envelope returned by /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

// Process is one packing process row in the list view.
type Process struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	StartedAt  string  `json:"started_at"`
	FinishedAt *string `json:"finished_at"`
	CreatedBy  User    `json:"created_by"`
}

// PickingProcess is a waiting picking process that can seed a packing
// process.
type PickingProcess struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	OrderCount int         `json:"num_ordenes"`
	Containers []Container `json:"containers"`
}

// Container is a picking container bar code.
type Container struct {
	BarCode string `json:"bar_code"`
}

// Product is the catalog side of an order line.
type Product struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	BarCode       string `json:"bar_code"`
	WarehouseCode string `json:"warehouse_code"`
	ImageURL      string `json:"image_url"`
}

// OrderLine is one expected product with its required quantity.
type OrderLine struct {
	Quantity int     `json:"quantity"`
	Product  Product `json:"product"`
}

// Order is the shipment attached to a process order.
type Order struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Address2       string `json:"address_2"`
	City           string `json:"city"`
	Province       string `json:"province"`
	Zip            string `json:"zip"`
	CountryCode    string `json:"country_code"`
	ShippingMethod string `json:"shipping_method_name"`
	TrackingCode   string `json:"tracking_code"`
}

// ProcessOrder is one unit of work within a packing process.
type ProcessOrder struct {
	ID         int64       `json:"id"`
	StartedAt  *string     `json:"started_at"`
	FinishedAt *string     `json:"finished_at"`
	Order      Order       `json:"order"`
	Lines      []OrderLine `json:"packing_process_order_product"`
}

// ConfirmedOrder is a historical row for the confirmed orders table.
type ConfirmedOrder struct {
	OrderID    int64              `json:"order_id"`
	Products   []ConfirmedProduct `json:"products"`
	StartedAt  string             `json:"started_at"`
	FinishedAt string             `json:"finished_at"`
}

// ConfirmedProduct is one product within a confirmed order.
type ConfirmedProduct struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ProcessDetail is the full payload of the detail view.
type ProcessDetail struct {
	Process         Process
	Orders          []ProcessOrder
	PendingOrder    *ProcessOrder
	ConfirmedOrders []ConfirmedOrder
}

// CompletedProduct is one scanned line in the confirmation payload.
type CompletedProduct struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ConfirmRequest is the body of the confirm call.
type ConfirmRequest struct {
	CompletedProducts []CompletedProduct `json:"completedProducts"`
}

// ConfirmResult is the backend's answer to a confirmation. LabelURL is
// empty when the process finished and no further label is produced.
type ConfirmResult struct {
	LabelURL string
}

// envelope is the {success, data} wrapper every endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Nested list shapes: data.packing_processes.data / data.picking_processes.data.
type processListData struct {
	PackingProcesses struct {
		Data []Process `json:"data"`
	} `json:"packing_processes"`
}

type pickingListData struct {
	PickingProcesses struct {
		Data []PickingProcess `json:"data"`
	} `json:"picking_processes"`
}

type processDetailData struct {
	Process struct {
		Process
		PackingProcessOrders []ProcessOrder `json:"packing_process_orders"`
	} `json:"process"`
	PendingProcessOrder *ProcessOrder             `json:"pendingProcessOrder"`
	ConfirmedOrders     map[string]ConfirmedOrder `json:"confirmedOrders"`
}

type confirmData struct {
	Success  bool            `json:"success"`
	LabelURL json.RawMessage `json:"label_url"`
}
