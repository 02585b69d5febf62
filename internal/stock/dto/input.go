package dto

type DecrementInput struct {
	ProductID   int64
	ProductName string // Used in the insufficient stock message
	Color       string
	Size        string
	Quantity    int
}

type ApplyOrderInput struct {
	OrderID string
	Items   []DecrementInput
}
