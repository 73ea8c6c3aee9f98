package enums

// CartOperation names a cart mutation for metrics and logs.
type CartOperation string

const (
	CartOperationAdd    CartOperation = "add"
	CartOperationSet    CartOperation = "set_quantity"
	CartOperationRemove CartOperation = "remove"
	CartOperationClear  CartOperation = "clear"
)

// String implements fmt.Stringer.
func (o CartOperation) String() string {
	return string(o)
}

// CheckoutOutcome labels the result of a checkout transition.
type CheckoutOutcome string

const (
	CheckoutOutcomeOpened    CheckoutOutcome = "opened"
	CheckoutOutcomeCanceled  CheckoutOutcome = "canceled"
	CheckoutOutcomeEmpty     CheckoutOutcome = "cart_empty"
	CheckoutOutcomeInvalid   CheckoutOutcome = "invalid_customer"
	CheckoutOutcomeSubmitted CheckoutOutcome = "submitted"
)

// String implements fmt.Stringer.
func (o CheckoutOutcome) String() string {
	return string(o)
}
