package models

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places every stored amount is rounded to.
const MoneyPlaces = 2

// Money is a currency amount with two-place precision.
// It is stored in DynamoDB as a number and encoded in JSON as a plain number.
type Money struct {
	decimal.Decimal
}

// ZeroMoney is the zero amount.
var ZeroMoney = Money{decimal.Zero}

// NewMoney rounds d to two places.
func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(MoneyPlaces)}
}

// MoneyFromFloat converts a float to Money, rounding to two places.
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// MustParseMoney parses s or panics. Intended for tests and constants.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("invalid money %q: %v", s, err))
	}
	return NewMoney(d)
}

// Plus returns m + o.
func (m Money) Plus(o Money) Money { return NewMoney(m.Decimal.Add(o.Decimal)) }

// Minus returns m - o.
func (m Money) Minus(o Money) Money { return NewMoney(m.Decimal.Sub(o.Decimal)) }

// Neg returns -m.
func (m Money) Neg() Money { return Money{m.Decimal.Neg()} }

// Equals compares two amounts numerically.
func (m Money) Equals(o Money) bool { return m.Decimal.Equal(o.Decimal) }

// FloorZero returns m, or zero when m is negative.
func (m Money) FloorZero() Money {
	if m.IsNegative() {
		return ZeroMoney
	}
	return m
}

// String renders the amount with exactly two decimals.
func (m Money) String() string { return m.StringFixed(MoneyPlaces) }

// MarshalJSON encodes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(MoneyPlaces)), nil
}

// UnmarshalJSON accepts both numbers and numeric strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*m = NewMoney(d)
	return nil
}

// MarshalDynamoDBAttributeValue stores the amount as a DynamoDB number.
func (m Money) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: m.StringFixed(MoneyPlaces)}, nil
}

// UnmarshalDynamoDBAttributeValue reads a number (or a missing/NULL value as zero).
func (m *Money) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		d, err := decimal.NewFromString(v.Value)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", v.Value, err)
		}
		*m = NewMoney(d)
	case *types.AttributeValueMemberS:
		d, err := decimal.NewFromString(v.Value)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", v.Value, err)
		}
		*m = NewMoney(d)
	case *types.AttributeValueMemberNULL:
		*m = ZeroMoney
	default:
		return fmt.Errorf("unsupported attribute type %T for amount", av)
	}
	return nil
}
