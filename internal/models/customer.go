package models

import "time"

type Customer struct {
	ID        string    `json:"id" db:"id" bson:"id"`
	Name      string    `json:"name" db:"name" bson:"name"`
	Email     string    `json:"email" db:"email" bson:"email"`
	Phone     string    `json:"phone" db:"phone" bson:"phone"`
	Address   string    `json:"address" db:"address" bson:"address"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// CustomerSnapshot is the copy of a customer embedded in an invoice at creation time.
type CustomerSnapshot struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
}

// Snapshot copies the fields an invoice keeps about its customer.
func (c *Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

type CreateCustomerData struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateCustomerData struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Apply copies the supplied fields onto c.
func (d UpdateCustomerData) Apply(c *Customer) {
	if d.Name != nil {
		c.Name = *d.Name
	}
	if d.Email != nil {
		c.Email = *d.Email
	}
	if d.Phone != nil {
		c.Phone = *d.Phone
	}
	if d.Address != nil {
		c.Address = *d.Address
	}
}
