package services

import "github.com/shopspring/decimal"

// GSTRate is the flat Australian Goods and Services Tax rate (10%).
var GSTRate = decimal.RequireFromString("0.10")

var gstMultiplier = decimal.NewFromInt(1).Add(GSTRate)

// CalculateGST returns the GST component of an ex-GST amount.
func CalculateGST(amountExGST decimal.Decimal) decimal.Decimal {
	return amountExGST.Mul(GSTRate)
}

// AddGST returns the GST-inclusive amount for an ex-GST amount.
func AddGST(amountExGST decimal.Decimal) decimal.Decimal {
	return amountExGST.Mul(gstMultiplier)
}

// RemoveGST strips GST from a GST-inclusive amount.
func RemoveGST(amountIncGST decimal.Decimal) decimal.Decimal {
	return amountIncGST.Div(gstMultiplier)
}
