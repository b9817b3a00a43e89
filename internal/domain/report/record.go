// Package report holds the pure aggregation behind the sales, product and
// attendance reports. It performs no I/O: callers load records, call an
// aggregation and log whatever ended up in Result.Skips.
package report

import (
	"time"

	"github.com/google/uuid"
)

// OrderRecord is the slice of an order that sales reports need.
type OrderRecord struct {
	ID               uuid.UUID
	InvoiceNo        string
	OrderDate        time.Time
	Cancelled        bool
	PriceIncludesTax bool
	SubTotal         int64
	Discount         int64
	Tax              int64
	Total            int64
	EmployeeID       *uuid.UUID
	CustomerID       *uuid.UUID
}

// Amounts returns the gross amount and net revenue of the order.
//
// Tax inclusive orders store the discounted figure in SubTotal, so the gross is
// SubTotal + Discount and revenue is SubTotal. Tax exclusive orders store the
// undiscounted figure, so the gross is SubTotal and revenue is SubTotal - Discount,
// floored at zero.
func (r OrderRecord) Amounts() (gross, revenue int64) {
	if r.PriceIncludesTax {
		return r.SubTotal + r.Discount, r.SubTotal
	}
	revenue = r.SubTotal - r.Discount
	if revenue < 0 {
		revenue = 0
	}
	return r.SubTotal, revenue
}

// ItemRecord is one order line as seen by product reports.
type ItemRecord struct {
	OrderID     uuid.UUID
	OrderDate   time.Time
	Cancelled   bool
	ProductID   uuid.UUID
	ProductName string
	ProductCode string
	Quantity    int
	Total       int64
	CostPrice   int64 // per unit
}

// AttendanceRecord is one shift as seen by the attendance summary.
type AttendanceRecord struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	CheckIn    time.Time
	CheckOut   *time.Time
}

// Skip explains why a record was left out of a report.
type Skip struct {
	ID     uuid.UUID `json:"id"`
	Ref    string    `json:"ref,omitempty"`
	Reason string    `json:"reason"`
}

const (
	ReasonNoDate      = "missing or invalid date"
	ReasonOutOfRange  = "outside report range"
	ReasonNegativeQty = "non-positive quantity"
	ReasonBadCheckOut = "check-out before check-in"
)
