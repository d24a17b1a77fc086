package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора заказа.
	ErrOrderIDRequired = errors.New("order id is required")
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующего идентификатора позиции.
	ErrItemIDRequired = errors.New("item id is required")
	// Ошибка повторяющегося идентификатора позиции в одном заказе.
	ErrItemIDDuplicate = errors.New("item id must be unique within an order")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Цена хранится в NUMERIC(14,2): больше двух знаков после запятой не помещается.
	ErrItemPriceScale = errors.New("item price must have at most two decimal places")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists возвращается при повторном создании заказа с тем же ID.
	ErrOrderAlreadyExists = errors.New("order already exists")
)

// IsNotFound проверяет, является ли ошибка отсутствием заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

// IsAlreadyExists проверяет, является ли ошибка конфликтом идентификаторов.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrOrderAlreadyExists)
}

// IsMissing отличает настоящее отсутствие заказа от сбоя чтения:
// ErrOrderNotFound без посторонней причины в цепочке.
func IsMissing(err error) bool {
	return errors.Is(err, ErrOrderNotFound) && notFoundCause(err) == nil
}

// notFoundCause возвращает первую ошибку цепочки, не сводящуюся к ErrOrderNotFound.
func notFoundCause(err error) error {
	if err == ErrOrderNotFound {
		return nil
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if !errors.Is(inner, ErrOrderNotFound) {
				return inner
			}
			if cause := notFoundCause(inner); cause != nil {
				return cause
			}
		}
		return nil
	case interface{ Unwrap() error }:
		if inner := u.Unwrap(); inner != nil {
			return notFoundCause(inner)
		}
	}
	return err
}
