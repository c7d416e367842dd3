package domain

import "time"

type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client is an agency customer account. UserID links the portal login
// that owns the account; it is nil for clients without portal access.
type Client struct {
	ID          string
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Website     string
	Notes       string
	UserID      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Client) Validate() error {
	if c.CompanyName == "" {
		return &ValidationError{Field: "companyName", Message: "Company name is required"}
	}
	if c.ContactName == "" {
		return &ValidationError{Field: "contactName", Message: "Contact name is required"}
	}
	if !validEmail(c.Email) {
		return &ValidationError{Field: "email", Message: "A valid email address is required"}
	}
	if c.Website != "" && !validURL(c.Website) {
		return &ValidationError{Field: "website", Message: "Website must be a valid URL"}
	}
	return nil
}
