package account

// Contact is the buyer contact data used for invoices and notifications.
type Contact struct {
	ID    string
	Name  string
	Email string
	Phone string
}
