// Package validation содержит функции валидации входных данных.
package validation

import (
	"net/mail"
	"strings"

	"github.com/mmeshcher/garmenttrack/internal/model"
)

// IsValidEmail проверяет, что строка является одиночным адресом электронной почты без имени.
func IsValidEmail(email string) bool {
	if email == "" || strings.TrimSpace(email) != email {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	return addr.Address == email
}

// MissingOrderFields возвращает имена обязательных полей заказа, которые не заполнены.
// Нулевое или отрицательное количество считается незаполненным.
func MissingOrderFields(o model.Order) []string {
	var missing []string

	if strings.TrimSpace(o.ProductID) == "" {
		missing = append(missing, "productId")
	}
	if strings.TrimSpace(o.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(o.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(o.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if o.Quantity <= 0 {
		missing = append(missing, "quantity")
	}

	return missing
}
