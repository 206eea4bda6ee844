package validation

import (
	"agromart/internal/models"
)

// UserRegistration validates a registration request
func (v *Validator) UserRegistration(input *models.CreateUserInput) {
	v.Required("name", input.Name)
	v.Required("email", input.Email)
	v.Required("phone", input.Phone)
	v.Email("email", input.Email)
	v.Phone("phone", input.Phone)
	v.Password("password", input.Password)
	v.In("role", input.Role,
		models.RoleFarmer, models.RoleAgent, models.RoleBusiness, models.RolePersonal)
}

// Product validates a product listing
func (v *Validator) Product(p *models.Product) {
	v.Required("name", p.Name)
	v.MaxLength("name", p.Name, 120)
	v.Required("category", p.Category)
	v.In("category", p.Category,
		models.CategoryGrains, models.CategoryTubers, models.CategoryVegetables,
		models.CategoryFruits, models.CategoryLivestock, models.CategoryInputs,
		models.CategoryOther)
	v.Range("price", p.Price, 1, 100000000)
	v.Check(p.QuantityAvailable >= 0, "quantity_available", "must not be negative")
	v.Check(p.MinOrderQuantity >= 1, "min_order_quantity", "must be at least 1")
}

// BankDetails validates payout bank details before gateway resolution
func (v *Validator) BankDetails(bankCode, accountNumber string) {
	v.Required("bank_code", bankCode)
	v.Required("account_number", accountNumber)
	v.Check(accountNumberRegex.MatchString(accountNumber),
		"account_number", "must be a 10-digit NUBAN account number")
}

// RFQ validates a sourcing request
func (v *Validator) RFQ(r *models.RFQ) {
	v.Required("title", r.Title)
	v.MaxLength("title", r.Title, 160)
	v.Check(r.Quantity > 0, "quantity", "must be greater than zero")
	if r.Deadline != nil {
		v.Future("deadline", *r.Deadline)
	}
}
